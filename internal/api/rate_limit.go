package api

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/terraincognita07/pitlane/internal/services"
)

// NewAuthRateLimiter limits auth form posts per client IP. The rate uses
// the limiter's "<limit>-<period>" format, e.g. "20-M".
func NewAuthRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse auth rate limit %q: %w", formatted, err)
	}
	return limiter.New(memory.NewStore(), rate, limiter.WithTrustForwardHeader(false)), nil
}

func (handler *Handler) RateLimit(instance *limiter.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if instance == nil {
			return c.Next()
		}

		result, err := instance.Get(c.UserContext(), c.IP())
		if err != nil {
			handler.logger.Warn("rate limiter failed", zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.Reset, 10))

		if result.Reached {
			handler.logger.Info("auth rate limit reached", zap.String("ip", c.IP()), zap.String("path", c.Path()))
			return handler.respondFormError(c, fiber.StatusTooManyRequests, refererPath(c), FlashPayload{
				Error: services.BackendMessageTooManyAttempts,
			})
		}
		return c.Next()
	}
}
