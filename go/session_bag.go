package storefrontserver

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
)

const (
	// SessionName is the cookie carrying the storefront session.
	SessionName = "storefront_session"
	bagKey      = "bag"
)

// NewCookieStore builds the signed cookie store backing sessions.
func NewCookieStore(secret []byte, secure bool) sessions.Store {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
	})
	return store
}

// SessionBagStore reads and replaces the bag kept in the visitor's session.
type SessionBagStore struct{}

// Load decodes the session bag. A missing bag is an empty bag.
func (SessionBagStore) Load(c *gin.Context) (*bagdomain.Bag, error) {
	raw, _ := sessions.Default(c).Get(bagKey).(string)
	return bagdomain.Decode([]byte(raw))
}

// Save replaces the session bag.
func (SessionBagStore) Save(c *gin.Context, bag *bagdomain.Bag) error {
	payload, err := bagdomain.Encode(bag)
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(bagKey, string(payload))
	if err := session.Save(); err != nil {
		return fmt.Errorf("save session bag: %w", err)
	}
	return nil
}

// Clear drops the session bag.
func (SessionBagStore) Clear(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(bagKey)
	if err := session.Save(); err != nil {
		return fmt.Errorf("clear session bag: %w", err)
	}
	return nil
}

type flashLevel string

const (
	flashSuccess flashLevel = "success"
	flashInfo    flashLevel = "info"
	flashError   flashLevel = "error"
)

// Flash is a one-shot message rendered on the next response.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// queueFlash stores a message for the next response; it is persisted by the next session save.
func queueFlash(c *gin.Context, level flashLevel, message string) {
	sessions.Default(c).AddFlash(message, string(level))
}

// saveSession persists pending session changes. A failure only loses flash messages, so it is logged.
func saveSession(c *gin.Context, logger *slog.Logger) {
	if logger == nil {
		logger = discardLogger()
	}
	if err := sessions.Default(c).Save(); err != nil {
		logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "failed to save session",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()))
	}
}

// popFlashes drains queued messages of every level.
func popFlashes(c *gin.Context, logger *slog.Logger) []Flash {
	session := sessions.Default(c)
	var out []Flash
	for _, level := range []flashLevel{flashError, flashInfo, flashSuccess} {
		for _, message := range session.Flashes(string(level)) {
			if text, ok := message.(string); ok {
				out = append(out, Flash{Level: string(level), Message: text})
			}
		}
	}
	if len(out) > 0 {
		saveSession(c, logger)
	}
	return out
}
