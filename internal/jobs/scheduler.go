package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/logitrack/api/internal/auth"
)

type sessionPurger interface {
	PurgeSessions(ctx context.Context, before time.Time) (int64, error)
}

type colisCompteur interface {
	CountParStatut(ctx context.Context) (map[string]int, error)
}

type diffuseur interface {
	CreerPourRole(ctx context.Context, role, titre, message, typ string, lien *string) (int, error)
}

// Scheduler porte les tâches planifiées : purge nocturne des sessions
// expirées et digest matinal des colis en attente.
type Scheduler struct {
	cron     *cron.Cron
	sessions sessionPurger
	colis    colisCompteur
	inbox    diffuseur
	log      zerolog.Logger
}

// NewScheduler crée le planificateur, sans le démarrer.
func NewScheduler(sessions sessionPurger, colis colisCompteur, inbox diffuseur, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		colis:    colis,
		inbox:    inbox,
		log:      log,
	}
}

// Start enregistre les tâches et lance le cron.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgerSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 7 * * *", s.digestMatinal); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop arrête le cron et attend la fin des tâches en cours, au plus 5s.
func (s *Scheduler) Stop() {
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("jobs: arrêt forcé après le délai de grâce")
	}
}

func (s *Scheduler) purgerSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.sessions.PurgeSessions(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("jobs: purge des sessions échouée")
		return
	}
	s.log.Info().Int64("supprimees", count).Msg("jobs: sessions purgées")
}

// digestMatinal pousse le compte des colis en attente dans la boîte des
// administrateurs et gestionnaires. Rien n'est envoyé si la file est vide.
func (s *Scheduler) digestMatinal() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := s.colis.CountParStatut(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("jobs: comptage des colis échoué")
		return
	}

	enAttente := counts["en_attente"]
	if enAttente == 0 {
		return
	}

	lien := "/colis?statut=en_attente"
	message := fmt.Sprintf("%d colis en attente d'affectation ce matin", enAttente)
	for _, role := range []string{auth.RoleAdmin, auth.RoleGestionnaire} {
		if _, err := s.inbox.CreerPourRole(ctx, role, "Digest colis", message, "info", &lien); err != nil {
			s.log.Error().Err(err).Str("role", role).Msg("jobs: envoi du digest échoué")
		}
	}
}
