package identitydirectory

import (
	"log/slog"

	httpadapter "crowdfund/contexts/crowdfunding/identity-directory/adapters/http"
	"crowdfund/contexts/crowdfunding/identity-directory/adapters/memory"
	"crowdfund/contexts/crowdfunding/identity-directory/application/commands"
	"crowdfund/contexts/crowdfunding/identity-directory/application/queries"
	"crowdfund/contexts/crowdfunding/identity-directory/domain/entities"
	"crowdfund/contexts/crowdfunding/identity-directory/ports"
)

type Module struct {
	Handler      httpadapter.Handler
	IsRegistered queries.IsRegisteredUseCase
	Store        *memory.Store
}

type Dependencies struct {
	Profiles ports.ProfileRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	register := commands.RegisterUseCase{
		Profiles: deps.Profiles,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	getProfile := queries.GetProfileUseCase{
		Profiles: deps.Profiles,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Register:   register,
			GetProfile: getProfile,
			Logger:     deps.Logger,
		},
		IsRegistered: queries.IsRegisteredUseCase{
			Profiles: deps.Profiles,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Profile, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Profiles: store,
		Clock:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
