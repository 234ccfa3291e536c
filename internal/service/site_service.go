package service

import (
	"context"
	"slices"

	"cafe-site/internal/model"
	"cafe-site/internal/store"

	"github.com/rs/zerolog"
)

// siteService implements SiteService.
type siteService struct {
	store  Store
	newID  idFunc
	logger zerolog.Logger
}

// NewSiteService creates a new site service.
func NewSiteService(st Store, logger zerolog.Logger) SiteService {
	return &siteService{
		store:  st,
		newID:  NewID,
		logger: logger.With().Str("service", "site").Logger(),
	}
}

// PublicView projects a snapshot onto what the public site may see.
func PublicView(snap store.Snapshot) model.Site {
	return model.Site{
		Version:    snap.Version,
		MenuItems:  snap.MenuItems,
		Categories: snap.Categories,
		Profile:    snap.Profile,
	}
}

func (s *siteService) Public(ctx context.Context) model.Site {
	return PublicView(s.store.Snapshot())
}

func (s *siteService) Admin(ctx context.Context) store.Snapshot {
	return s.store.Snapshot()
}

func (s *siteService) Profile(ctx context.Context) model.BusinessProfile {
	return s.store.Snapshot().Profile
}

// UpdateProfile replaces the profile as given. Images and texts are stored
// verbatim; only feature IDs are filled in.
func (s *siteService) UpdateProfile(ctx context.Context, p *model.BusinessProfile) (*model.BusinessProfile, error) {
	if p == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Request body is required")
	}

	profile := p.Clone()
	if profile.About.Features == nil {
		profile.About.Features = []model.Feature{}
	}
	for i := range profile.About.Features {
		if profile.About.Features[i].ID == "" {
			profile.About.Features[i].ID = s.newID("feature")
		}
	}

	ids := make([]string, 0, len(profile.About.Features))
	for _, f := range profile.About.Features {
		if slices.Contains(ids, f.ID) {
			return nil, model.NewDomainError(model.ErrCodeInvalidField, "Duplicate feature id: "+f.ID)
		}
		ids = append(ids, f.ID)
	}

	s.store.UpdateProfile(profile)

	s.logger.Info().
		Str("name", profile.Name).
		Int("features", len(profile.About.Features)).
		Msg("business profile updated")

	return &profile, nil
}
