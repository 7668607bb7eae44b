package app

import (
	"context"
	"sync"
	"time"

	"github.com/aurawell/aura/internal/app/domain/profile"
	"github.com/aurawell/aura/internal/app/metrics"
	"github.com/aurawell/aura/internal/app/services/aura"
	"github.com/aurawell/aura/internal/app/services/avatar"
	"github.com/aurawell/aura/internal/app/services/community"
	"github.com/aurawell/aura/internal/app/services/companion"
	"github.com/aurawell/aura/internal/app/services/journal"
	"github.com/aurawell/aura/internal/app/services/report"
	"github.com/aurawell/aura/internal/app/services/scoring"
	"github.com/aurawell/aura/internal/app/storage"
	"github.com/aurawell/aura/internal/app/storage/memory"
	"github.com/aurawell/aura/internal/app/system"
	"github.com/aurawell/aura/pkg/logger"
)

// Stores collects the persistence interfaces the services run on. Any nil
// entry is backed by a shared in-memory store.
type Stores struct {
	Days    storage.DayStore
	Targets storage.TargetStore
	Ledger  storage.LedgerStore
	Members storage.MemberStore
	Profile storage.ProfileStore
}

// Collaborators are the model-assisted backends. Any of them may be nil,
// in which case the corresponding endpoints report the missing collaborator.
type Collaborators struct {
	Tasks     journal.TaskGenerator
	Texts     journal.TextVerifier
	Images    journal.ImageVerifier
	Stats     journal.StatsExtractor
	Summaries report.Summarizer
	Avatars   avatar.Generator
	Chat      companion.Chatter
}

// Options configures the application.
type Options struct {
	Stores           Stores
	Collaborators    Collaborators
	Logger           *logger.Logger
	Metrics          *metrics.Metrics
	RolloverInterval time.Duration
}

// Application wires the services over a single session lock so score reads,
// task completions and aura sharing stay mutually consistent.
type Application struct {
	log      *logger.Logger
	Metrics  *metrics.Metrics
	profiles storage.ProfileStore

	mu sync.Mutex

	Scoring   *scoring.Engine
	Journal   *journal.Service
	Aura      *aura.Service
	Community *community.Service
	Report    *report.Service
	Avatar    *avatar.Service
	Companion *companion.Service

	manager *system.Manager
}

// New builds the application from the given options.
func New(opts Options) (*Application, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefault("app")
	}
	mets := opts.Metrics
	if mets == nil {
		mets = metrics.New("aura")
	}

	stores := opts.Stores
	if stores.Days == nil || stores.Targets == nil || stores.Ledger == nil || stores.Members == nil || stores.Profile == nil {
		mem := memory.New()
		if stores.Days == nil {
			stores.Days = mem
		}
		if stores.Targets == nil {
			stores.Targets = mem
		}
		if stores.Ledger == nil {
			stores.Ledger = mem
		}
		if stores.Members == nil {
			stores.Members = mem
		}
		if stores.Profile == nil {
			stores.Profile = mem
		}
	}

	a := &Application{
		log:      log,
		Metrics:  mets,
		profiles: stores.Profile,
		Scoring:  scoring.NewEngine(),
	}

	a.Journal = journal.New(stores.Days, stores.Targets, &a.mu, log.WithField("service", "journal"))
	a.Aura = aura.New(a.Scoring, stores.Days, stores.Targets, stores.Ledger, stores.Members, &a.mu, log.WithField("service", "aura"))
	a.Community = community.New(stores.Members, log.WithField("service", "community"))
	a.Report = report.New(a.Scoring, stores.Days, stores.Targets, log.WithField("service", "report"))
	a.Avatar = avatar.New(stores.Profile, log.WithField("service", "avatar"))
	a.Companion = companion.New(log.WithField("service", "companion"))

	c := opts.Collaborators
	a.Journal.AttachAI(c.Tasks, c.Texts, c.Images, c.Stats)
	if c.Summaries != nil {
		a.Report.AttachAI(c.Summaries)
	}
	if c.Avatars != nil {
		a.Avatar.AttachAI(c.Avatars)
	}
	if c.Chat != nil {
		a.Companion.AttachAI(c.Chat)
	}

	a.manager = system.NewManager()
	roller := journal.NewRoller(a.Journal, opts.RolloverInterval, log.WithField("service", "rollover"))
	if err := a.manager.Register(roller); err != nil {
		return nil, err
	}

	return a, nil
}

// Profile returns the session owner's profile.
func (a *Application) Profile(ctx context.Context) (profile.User, error) {
	return a.profiles.GetProfile(ctx)
}

// Start brings up the background services.
func (a *Application) Start(ctx context.Context) error {
	a.log.Info("application starting")
	return a.manager.Start(ctx)
}

// Stop shuts the background services down in reverse order.
func (a *Application) Stop(ctx context.Context) error {
	a.log.Info("application stopping")
	return a.manager.Stop(ctx)
}
