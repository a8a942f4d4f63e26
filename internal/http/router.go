package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/logitrack/api/internal/alert"
	"github.com/logitrack/api/internal/bon"
	"github.com/logitrack/api/internal/client"
	"github.com/logitrack/api/internal/colis"
	"github.com/logitrack/api/internal/config"
	"github.com/logitrack/api/internal/entreprise"
	httpmiddleware "github.com/logitrack/api/internal/http/middleware"
	"github.com/logitrack/api/internal/jobs"
	"github.com/logitrack/api/internal/livreur"
	"github.com/logitrack/api/internal/notification"
	"github.com/logitrack/api/internal/repo"
	"github.com/logitrack/api/internal/search"
	"github.com/logitrack/api/internal/service"
	"github.com/logitrack/api/internal/storage"
)

// Handler regroupe les dépendances des endpoints HTTP.
type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	authService   *service.AuthService
	utilisateurs  *service.UtilisateurService
	notifications *notification.Service
	entreprises   *entreprise.Repository
	clients       *client.Repository
	livreurs      *livreur.Repository
	colis         *colis.Service
	bons          *bon.Service
	recherche     *search.Service
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter assemble les services et renvoie le routeur configuré, ainsi que
// le planificateur démarré (nil si désactivé) pour que l'appelant l'arrête
// proprement à l'extinction.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService) (http.Handler, *jobs.Scheduler, error) {
	queries := repo.New(pool)

	entrepriseRepo := entreprise.NewRepository(pool)
	clientRepo := client.NewRepository(pool)
	livreurRepo := livreur.NewRepository(pool)

	notificationService := notification.NewService(notification.NewRepository(pool), queries)

	var notifier alert.Notifier
	if wh := alert.NewWebhookNotifier(cfg.AlertWebhookURL); wh != nil {
		notifier = wh
	}

	var uploader storage.Uploader = storage.NoopUploader{}
	switch cfg.Storage.Provider {
	case "", "noop":
		// conserve l'uploader par défaut
	case "s3", "r2":
		s3, err := storage.NewS3Uploader(storage.S3Config{
			Endpoint:     cfg.Storage.S3Endpoint,
			Region:       cfg.Storage.S3Region,
			Bucket:       cfg.Storage.S3Bucket,
			AccessKey:    cfg.Storage.S3AccessKey,
			SecretKey:    cfg.Storage.S3SecretKey,
			PublicDomain: cfg.Storage.S3PublicURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("storage: %w", err)
		}
		uploader = s3
	default:
		return nil, nil, fmt.Errorf("storage: provider %s non supporté", cfg.Storage.Provider)
	}

	colisRepo := colis.NewRepository(pool)
	colisService := colis.NewService(colisRepo, livreurRepo, notificationService, notifier, uploader)
	bonService := bon.NewService(bon.NewRepository(pool), colisService)

	rechercheService := search.NewService(colisRepo, clientRepo, livreurRepo, entrepriseRepo)

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		authService:   authService,
		utilisateurs:  service.NewUtilisateurService(queries),
		notifications: notificationService,
		entreprises:   entrepriseRepo,
		clients:       clientRepo,
		livreurs:      livreurRepo,
		colis:         colisService,
		bons:          bonService,
		recherche:     rechercheService,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	var scheduler *jobs.Scheduler
	if cfg.JobsEnabled {
		scheduler = jobs.NewScheduler(queries, colisRepo, notificationService, log.With().Str("component", "jobs").Logger())
		if err := scheduler.Start(); err != nil {
			return nil, nil, fmt.Errorf("jobs: %w", err)
		}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)
		public.Get("/acces/regles", h.ReglesAcces)

		public.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Login)
			auth.Post("/refresh", h.Refresh)
			auth.Post("/logout", h.Logout)
		})
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(authService.JWT()))
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))
		private.Use(httpmiddleware.Access)

		private.Get("/me", h.Me)
		private.Post("/me/mot-de-passe", h.ChangerMotDePasse)

		private.Get("/recherche", h.Rechercher)

		private.Route("/notifications", func(n chi.Router) {
			n.Get("/", h.InboxNotifications)
			n.Post("/lues", h.MarquerToutesLues)
			n.Post("/{id}/lue", h.MarquerLue)
			n.Delete("/{id}", h.SupprimerNotification)
			n.Post("/diffusion", h.DiffuserNotification)
		})

		private.Route("/colis", func(c chi.Router) {
			c.Get("/", h.ListerColis)
			c.Post("/", h.CreerColis)
			c.Get("/code/{code}", h.GetColisParCode)
			c.Get("/{id}", h.GetColis)
			c.Put("/{id}", h.UpdateColis)
			c.Delete("/{id}", h.SupprimerColis)
			c.Get("/{id}/historique", h.HistoriqueColis)
			c.Post("/{id}/statut", h.ChangerStatutColis)
			c.Post("/{id}/livreur", h.AssignerColis)
			c.Delete("/{id}/livreur", h.DesassignerColis)
			c.Post("/{id}/preuve", h.TeleverserPreuve)
		})

		private.Route("/clients", func(c chi.Router) {
			c.Get("/", h.ListerClients)
			c.Post("/", h.CreerClient)
			c.Get("/{id}", h.GetClient)
			c.Put("/{id}", h.UpdateClient)
			c.Delete("/{id}", h.SupprimerClient)
		})

		private.Route("/entreprises", func(e chi.Router) {
			e.Get("/", h.ListerEntreprises)
			e.Post("/", h.CreerEntreprise)
			e.Get("/{id}", h.GetEntreprise)
			e.Put("/{id}", h.UpdateEntreprise)
			e.Delete("/{id}", h.SupprimerEntreprise)
		})

		private.Route("/livreurs", func(l chi.Router) {
			l.Get("/", h.ListerLivreurs)
			l.Post("/", h.CreerLivreur)
			l.Get("/{id}", h.GetLivreur)
			l.Put("/{id}", h.UpdateLivreur)
			l.Delete("/{id}", h.SupprimerLivreur)
		})

		private.Route("/bons", func(b chi.Router) {
			b.Get("/", h.ListerBons)
			b.Get("/{id}", h.GetBon)
			b.Post("/distribution", h.CreerBonDistribution)
			b.Post("/retour", h.CreerBonRetour)
			b.Post("/paiement", h.CreerBonPaiement)
			b.Post("/{id}/valider", h.ValiderBon)
			b.Post("/{id}/cloturer", h.CloturerBon)
			b.Delete("/{id}", h.SupprimerBon)
		})

		private.Route("/utilisateurs", func(u chi.Router) {
			u.Get("/", h.ListerUtilisateurs)
			u.Post("/", h.CreerUtilisateur)
			u.Get("/{id}", h.GetUtilisateur)
			u.Put("/{id}", h.UpdateUtilisateur)
			u.Delete("/{id}", h.SupprimerUtilisateur)
		})
	})

	return r, scheduler, nil
}

// Health répond un statut simple.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valide les connexions Postgres et Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	redisErr := h.redis.Ping(ctx).Err()

	if dbErr != nil || redisErr != nil {
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dépendances indisponibles", map[string]any{
			"db":    errorString(dbErr),
			"redis": errorString(redisErr),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// ReglesAcces expose la table des droits par route, consommée par le front
// pour masquer les entrées de menu. Le serveur reste seul juge de l'accès.
func (h *Handler) ReglesAcces(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, httpmiddleware.Regles())
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
