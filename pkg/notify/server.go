package notify

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	socket "github.com/zishang520/socket.io/socket"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/features/user"
	jwtutil "github.com/coursehub/curriculum-server-go/internal/utils/jwt"
)

// Server wraps a Socket.IO server used to push learner-facing events.
// Each authenticated connection joins a per-user room; completion events
// are emitted into that room so every open tab of the learner sees them.
type Server struct {
	io        *socket.Server
	db        *gorm.DB
	logger    *slog.Logger
	jwtSecret string

	connMutex   sync.RWMutex
	connections map[string]*socket.Socket
}

// NewServer creates a Socket.IO server for learner notifications.
func NewServer(db *gorm.DB, logger *slog.Logger, jwtSecret string) (*Server, error) {
	opts := socket.DefaultServerOptions()
	opts.SetPingTimeout(60 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	opts.SetServeClient(false)
	opts.SetPath("/socket.io")

	s := &Server{
		io:          socket.NewServer(nil, opts),
		db:          db,
		logger:      logger,
		jwtSecret:   jwtSecret,
		connections: make(map[string]*socket.Socket),
	}

	s.io.Use(s.connectionMiddleware)
	s.io.On("connection", func(args ...any) {
		sock, ok := args[0].(*socket.Socket)
		if !ok {
			s.logger.Error("unexpected connection payload", slog.Any("payload", args))
			return
		}
		s.handleConnection(sock)
	})

	return s, nil
}

// GetHandler returns the HTTP handler for Socket.IO.
func (s *Server) GetHandler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close shuts down the Socket.IO server.
func (s *Server) Close() error {
	done := make(chan struct{})
	s.io.Close(func() {
		close(done)
	})

	<-done
	return nil
}

// LectureCompleted pushes a one-shot completion event to the learner's room.
// Called only on the first threshold crossing for a lecture.
func (s *Server) LectureCompleted(userID, courseID, lectureID uuid.UUID) {
	s.io.To(userRoom(userID.String())).Emit("lecture:completed", map[string]any{
		"courseId":  courseID.String(),
		"lectureId": lectureID.String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) connectionMiddleware(sock *socket.Socket, next func(*socket.ExtendedError)) {
	token := s.extractToken(sock)
	if token == "" {
		s.logger.Warn("socket connection rejected: missing token")
		next(socket.NewExtendedError("missing authentication token", map[string]any{"code": "MISSING_TOKEN"}))
		return
	}

	claims, err := jwtutil.VerifyToken(token, s.jwtSecret)
	if err != nil {
		s.logger.Warn("socket connection rejected: invalid token", slog.String("error", err.Error()))
		next(socket.NewExtendedError("invalid token", map[string]any{"code": "INVALID_TOKEN"}))
		return
	}

	var userData user.User
	if err := s.db.First(&userData, "id = ?", claims.UserID).Error; err != nil {
		s.logger.Warn("socket connection rejected: user not found", slog.Any("userId", claims.UserID), slog.String("error", err.Error()))
		next(socket.NewExtendedError("user not found", map[string]any{"code": "USER_NOT_FOUND"}))
		return
	}

	sock.SetData(&userData)
	next(nil)
}

func (s *Server) handleConnection(sock *socket.Socket) {
	userData, ok := sock.Data().(*user.User)
	if !ok || userData == nil {
		s.logger.Error("connection established without user context")
		sock.Disconnect(true)
		return
	}

	s.connMutex.Lock()
	s.connections[string(sock.Id())] = sock
	s.connMutex.Unlock()

	s.logger.Info("websocket connected",
		slog.String("userId", userData.ID.String()),
		slog.String("connId", string(sock.Id())),
	)

	sock.Join(userRoom(userData.ID.String()))

	sock.On("disconnect", func(args ...any) {
		s.connMutex.Lock()
		delete(s.connections, string(sock.Id()))
		s.connMutex.Unlock()
	})
}

func (s *Server) extractToken(sock *socket.Socket) string {
	if sock == nil {
		return ""
	}

	if hs := sock.Handshake(); hs != nil {
		if hs.Query != nil {
			if token, ok := hs.Query.Get("token"); ok && token != "" {
				return token
			}
		}
		if authMap, ok := hs.Auth.(map[string]any); ok {
			if token, ok := authMap["token"].(string); ok {
				return token
			}
		}
	}

	return ""
}

func userRoom(userID string) socket.Room {
	return socket.Room("user:" + userID)
}
