package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"seaview-backend/internal/delivery/http/middleware"
	"seaview-backend/internal/delivery/http/response"
	"seaview-backend/internal/domain"
	"seaview-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const contactPath = "/contact"

// maxContactBody bounds the JSON body of a contact submission
const maxContactBody = 64 << 10

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the mail relay at /contact (public, open CORS)
func NewContactHandler(r gin.IRouter, contactUC domain.ContactUsecase, limiter gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	contact := r.Group(contactPath, middleware.CORSMiddleware(), limiter)
	contact.POST("", handler.SubmitContact)
	// Preflight is answered by the CORS middleware
	contact.OPTIONS("", func(c *gin.Context) {})
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relays a contact form inquiry to the facility by email and sends the enquirer a confirmation.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        inquiry  body      domain.Inquiry  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      405      {object}  response.Response
// @Failure      413      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBody)

	var body map[string]interface{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.New(http.StatusRequestEntityTooLarge, "Request body too large", nil))
			return
		}
		// Anything that is not a JSON object is handled like an empty form
		body = nil
	}

	req := domain.InquiryFromFields(formFields(body))
	message, err := h.contactUC.RelayInquiry(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, message, nil)
}

// formFields flattens a decoded JSON object into form values. Numbers and
// booleans are kept in their text form; nested values count as absent.
func formFields(body map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(body))
	for key, value := range body {
		switch v := value.(type) {
		case string:
			fields[key] = v
		case json.Number:
			fields[key] = v.String()
		case bool:
			if v {
				fields[key] = "1"
			}
		}
	}
	return fields
}
