package campaignregistry

import (
	"log/slog"

	"crowdfund/contexts/crowdfunding/campaign-registry/adapters/events"
	httpadapter "crowdfund/contexts/crowdfunding/campaign-registry/adapters/http"
	"crowdfund/contexts/crowdfunding/campaign-registry/adapters/memory"
	"crowdfund/contexts/crowdfunding/campaign-registry/application/commands"
	"crowdfund/contexts/crowdfunding/campaign-registry/application/queries"
	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
	"crowdfund/internal/platform/keylock"
)

type Module struct {
	Handler httpadapter.Handler
	Reader  queries.Reader
	Store   *memory.Store
	Changes *events.Recorder
}

type Dependencies struct {
	Campaigns   ports.CampaignRepository
	Reader      ports.CampaignReader
	Registry    ports.RegistrationChecker
	Locks       ports.OwnerLocker
	Notifier    ports.ChangeNotifier
	Clock       ports.Clock
	MaxPageSize int
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createCampaign := commands.CreateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Registry:  deps.Registry,
		Locks:     deps.Locks,
		Notifier:  deps.Notifier,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	updateCampaign := commands.UpdateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Locks:     deps.Locks,
		Notifier:  deps.Notifier,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	deleteCampaign := commands.DeleteCampaignUseCase{
		Campaigns: deps.Campaigns,
		Locks:     deps.Locks,
		Notifier:  deps.Notifier,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}

	reader := queries.Reader{
		Campaigns:   deps.Reader,
		MaxPageSize: deps.MaxPageSize,
	}
	listCampaigns := queries.ListCampaignsUseCase{
		Reader: reader,
		Logger: deps.Logger,
	}
	getCampaign := queries.GetCampaignUseCase{
		Campaigns: deps.Campaigns,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign: createCampaign,
			UpdateCampaign: updateCampaign,
			DeleteCampaign: deleteCampaign,
			GetCampaign:    getCampaign,
			ListCampaigns:  listCampaigns,
			Logger:         deps.Logger,
		},
		Reader: reader,
	}
}

// NewInMemoryModule wires the registry to the in-memory store. Changes are
// kept in an in-memory recorder; extra notifiers receive them as well.
func NewInMemoryModule(
	seed []entities.Campaign,
	registry ports.RegistrationChecker,
	logger *slog.Logger,
	notifiers ...ports.ChangeNotifier,
) Module {
	store := memory.NewStore(seed)
	recorder := events.NewRecorder()
	var notifier ports.ChangeNotifier = recorder
	if len(notifiers) > 0 {
		notifier = append(events.Fanout{recorder}, notifiers...)
	}

	module := NewModule(Dependencies{
		Campaigns: store,
		Reader:    store,
		Registry:  registry,
		Locks:     keylock.New(),
		Notifier:  notifier,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	module.Changes = recorder
	return module
}
