package middleware

import (
	"github.com/MwizaSimbeye/StreamKick/app/models"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/database"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/session"
	"github.com/MwizaSimbeye/StreamKick/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware sets up the complete user context for every request.
// Sessions are issued by the external identity flow; this middleware only
// consumes the user_id/is_admin it left there.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := func() error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			IsLoggedIn: false,
			IsAdmin:    false,
		})
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return anonymous()
	}

	userID, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || userID == 0 {
		return anonymous()
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	// Tier comes from the user row so grants and expiries applied by the
	// payment pipeline are visible on the next request.
	tier := ""
	if db := database.GetDB(); db != nil {
		var user models.User
		if err := db.Select("supporter_tier", "supporter_expires_at").First(&user, userID).Error; err == nil {
			if user.IsSupporterActive(c.Context().Time()) {
				tier = user.SupporterTier
			}
		}
	}

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     userID,
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
		Tier:       tier,
	})

	return c.Next()
}
