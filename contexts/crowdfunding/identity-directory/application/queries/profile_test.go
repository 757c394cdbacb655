package queries

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"crowdfund/contexts/crowdfunding/identity-directory/adapters/memory"
	"crowdfund/contexts/crowdfunding/identity-directory/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/identity-directory/domain/errors"
)

type brokenProfiles struct{ err error }

func (b brokenProfiles) UpsertProfile(context.Context, entities.Profile) (entities.Profile, error) {
	return entities.Profile{}, b.err
}

func (b brokenProfiles) GetProfile(context.Context, string) (entities.Profile, error) {
	return entities.Profile{}, b.err
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestGetProfileLogsLookups(t *testing.T) {
	store := memory.NewStore([]entities.Profile{{Identity: "0xA", DisplayName: "A", Contact: "a@example.com", Registered: true}})
	logger, buf := bufferLogger()
	uc := GetProfileUseCase{Profiles: store, Logger: logger}

	profile, err := uc.Execute(context.Background(), " 0xA ")
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if profile.DisplayName != "A" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if !strings.Contains(buf.String(), `"event":"identity_profile_loaded"`) {
		t.Fatalf("expected load to be logged, got %s", buf.String())
	}

	if _, err := uc.Execute(context.Background(), ""); !errors.Is(err, domainerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestLookupFailuresAreLogged(t *testing.T) {
	cause := errors.New("connection reset")
	logger, buf := bufferLogger()

	if _, err := (GetProfileUseCase{Profiles: brokenProfiles{err: cause}, Logger: logger}).Execute(context.Background(), "0xA"); !errors.Is(err, cause) {
		t.Fatalf("expected repository error, got %v", err)
	}
	if _, err := (IsRegisteredUseCase{Profiles: brokenProfiles{err: cause}, Logger: logger}).Execute(context.Background(), "0xA"); !errors.Is(err, cause) {
		t.Fatalf("expected repository error, got %v", err)
	}
	for _, event := range []string{"identity_profile_lookup_failed", "identity_registration_check_failed"} {
		if !strings.Contains(buf.String(), `"event":"`+event+`"`) {
			t.Fatalf("expected %s in log output, got %s", event, buf.String())
		}
	}
}

func TestUnknownIdentityIsNotRegistered(t *testing.T) {
	logger, buf := bufferLogger()
	registered, err := IsRegisteredUseCase{Profiles: memory.NewStore(nil), Logger: logger}.Execute(context.Background(), "0xmissing")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if registered {
		t.Fatal("expected unknown identity to be unregistered")
	}
	if !strings.Contains(buf.String(), `"event":"identity_registration_missing"`) {
		t.Fatalf("expected missing registration to be logged, got %s", buf.String())
	}
	if strings.Contains(buf.String(), `"level":"ERROR"`) {
		t.Fatalf("unknown identity must not log an error, got %s", buf.String())
	}
}
