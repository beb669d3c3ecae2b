package usecase

import (
	"context"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	redis         func() *goredis.Client
	library       ImageLibrary
	mailTransport string
}

// NewHealthUsecase reports on the components the site depends on. redis may
// return nil when rate limiting runs in memory.
func NewHealthUsecase(redis func() *goredis.Client, library ImageLibrary, mailTransport string) HealthUsecase {
	return &healthUsecase{redis: redis, library: library, mailTransport: mailTransport}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
		"mail":   u.mailTransport,
		"redis":  "disabled",
	}

	if u.redis != nil {
		if client := u.redis(); client != nil {
			if err := client.Ping(ctx).Err(); err != nil {
				status["redis"] = "unavailable"
				status["status"] = "degraded"
			} else {
				status["redis"] = "ok"
			}
		}
	}

	if u.library != nil {
		n := len(u.library.Images())
		status["gallery_images"] = strconv.Itoa(n)
		if n == 0 {
			status["status"] = "degraded"
		}
	}

	return status
}
