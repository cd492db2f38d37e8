package boardserver

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/krosengr4/byteboard/internal/config"
)

const (
	tokenIssuer   = "byteboard-api"
	tokenAudience = "byteboard-client"
	tokenTTL      = 7 * 24 * time.Hour
)

// Server holds the board service's dependencies and handlers.
type Server struct {
	config *config.Config
	store  *memory
	redis  *redis.Client
	log    *slog.Logger
	app    *fiber.App
}

// Option configures a Server.
type Option func(*Server)

// WithRedis injects a redis client for login rate limiting. Without one the
// limiter fails open.
func WithRedis(rdb *redis.Client) Option {
	return func(s *Server) { s.redis = rdb }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer builds the service with an empty in-memory store.
func NewServer(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		config: cfg,
		store:  newMemory(),
		log:    slog.New(slog.DiscardHandler),
	}
	if cfg.RedisURL != "" {
		s.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	}
	for _, opt := range opts {
		opt(s)
	}

	app := fiber.New(fiber.Config{
		AppName:               "ByteBoard API",
		DisableStartupMessage: true,
	})
	app.Use(requestLogger(s.log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	s.setupRoutes(app)
	s.app = app
	return s
}

// App exposes the fiber app for tests and for serving on a listener.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the given address until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the service gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) setupRoutes(app *fiber.App) {
	app.Post("/login", rateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Post("/register", rateLimit(s.redis, 10, 5*time.Minute, "register"), s.Register)

	protected := app.Group("", s.AuthRequired())
	protected.Get("/auth/me", s.Me)

	protected.Get("/posts", s.ListPosts)
	protected.Post("/posts", s.CreatePost)
	protected.Get("/posts/user/:id", s.PostsByUser)
	protected.Get("/posts/:id", s.GetPost)
	protected.Put("/posts/:id", s.UpdatePost)
	protected.Delete("/posts/:id", s.DeletePost)
	protected.Get("/posts/:id/comments", s.ListComments)
	protected.Post("/posts/:id/comments", s.CreateComment)
	protected.Put("/comments/:id", s.UpdateComment)
	protected.Delete("/comments/:id", s.DeleteComment)

	protected.Get("/profiles", s.ListProfiles)
	protected.Get("/profiles/:id", s.GetProfile)
	protected.Put("/profiles/:id", s.UpdateProfile)
}

// AuthRequired returns the bearer-credential middleware. Any missing,
// malformed or expired token yields 401, the status the client intercepts
// centrally.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return respondWithError(c, fiber.StatusUnauthorized,
				newUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return respondWithError(c, fiber.StatusUnauthorized,
				newUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return respondWithError(c, fiber.StatusUnauthorized,
				newUnauthorizedError("Invalid token claims"))
		}
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return respondWithError(c, fiber.StatusUnauthorized,
				newUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return respondWithError(c, fiber.StatusUnauthorized,
				newUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return respondWithError(c, fiber.StatusUnauthorized,
				newUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return respondWithError(c, fiber.StatusUnauthorized,
				newUnauthorizedError("Invalid subject claim"))
		}
		if _, exists := s.store.userByID(uint(userID)); !exists {
			return respondWithError(c, fiber.StatusUnauthorized,
				newUnauthorizedError("Unknown user"))
		}

		c.Locals("userID", uint(userID))
		return c.Next()
	}
}

// generateToken creates a signed JWT for the given user ID.
func (s *Server) generateToken(userID uint) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(tokenTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique token ID to prevent replay.
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
