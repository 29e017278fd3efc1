package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// RegisterRoutes: rateLimit запросов в минуту с одного IP, 0 выключает лимит
func RegisterRoutes(r chi.Router, hAudio *AudioHandler, rateLimit int) {
	r.Group(func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)
		if rateLimit > 0 {
			pr.Use(httprate.LimitByIP(rateLimit, time.Minute))
		}

		pr.Post("/process-audio", hAudio.ProcessAudio)
	})

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
}
