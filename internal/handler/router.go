package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhouzirui/dali-api/internal/handler/member"
	"github.com/zhouzirui/dali-api/internal/handler/post"
	middlewarePkg "github.com/zhouzirui/dali-api/internal/middleware"
	memberService "github.com/zhouzirui/dali-api/internal/service/member"
	postService "github.com/zhouzirui/dali-api/internal/service/post"
	"github.com/zhouzirui/dali-api/pkg/utils"
)

const maxBodySize = 1 << 20

// Options 控制路由的可选功能。
type Options struct {
	AllowedOrigin string
	// Registry 为 nil 时不暴露 /metrics。
	Registry *prometheus.Registry
}

// NewRouter wires HTTP routes to the member and post stores.
func NewRouter(members *memberService.Service, posts *postService.Service, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBodySize))
	r.Use(middlewarePkg.CORS(opts.AllowedOrigin))

	if opts.Registry != nil {
		metrics := middlewarePkg.NewMetrics(opts.Registry)
		r.Use(metrics.Handler)
		registerStoreGauges(opts.Registry, members, posts)
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	member.New(members).RegisterRoutes(r)
	post.New(posts).RegisterRoutes(r)

	return r
}

func registerStoreGauges(reg prometheus.Registerer, members *memberService.Service, posts *postService.Service) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "dali",
			Name:      "members",
			Help:      "Members currently held in memory.",
		}, func() float64 { return float64(members.Count()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "dali",
			Name:      "posts",
			Help:      "Posts currently held in memory.",
		}, func() float64 { return float64(posts.Count()) }),
	)
}
