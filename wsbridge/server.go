package wsbridge

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/phanxgames/hanami"
)

//go:embed viewer.html
var viewerHTML []byte

// Server runs an engine against a Hub and serves it over HTTP.
type Server struct {
	Addr   string
	Config *hanami.Config

	Hub    *Hub
	Engine *hanami.Engine
}

// NewServer builds the hub and engine for cfg. A nil cfg uses the defaults.
func NewServer(addr string, cfg *hanami.Config) *Server {
	if cfg == nil {
		cfg = hanami.DefaultConfig()
	}
	vp := hanami.FixedViewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	hub := NewHub(vp)
	return &Server{
		Addr:   addr,
		Config: cfg,
		Hub:    hub,
		Engine: hanami.NewEngine(cfg, hub, vp),
	}
}

// Handler returns the HTTP routes: the viewer at /, frames at /ws and
// counters at /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.Hub.HandleFrames)
	mux.HandleFunc("/health", s.Hub.HandleHealth)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(viewerHTML)
	})
	return mux
}

// Run serves HTTP and pumps frames until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() {
		hanami.Logger().Info().Str("addr", s.Addr).Msg("websocket bridge listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	s.Engine.Start()
	var haiku *hanami.HaikuLoop
	if s.Config.Haiku.Enabled {
		composer := hanami.NewComposer(hanami.DefaultWords(), s.Engine.Sampler)
		haiku = hanami.NewHaikuLoop(s.Engine.Scheduler, composer, s.Hub, s.Config.Haiku)
	}

	pump := hanami.TickerPump{FPS: s.Config.Window.FPS}
	pumpCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	failed := make(chan error, 1)
	go func() {
		if err := <-errc; err != nil {
			failed <- err
		}
		cancel()
	}()

	err := pump.Run(pumpCtx, func(now time.Duration) {
		if haiku != nil {
			haiku.Update(now)
		}
		s.Engine.Advance(now)
		s.Hub.Broadcast()
	})

	shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	_ = srv.Shutdown(shutdownCtx)
	s.Engine.Stop()
	select {
	case serr := <-failed:
		return serr
	default:
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}
