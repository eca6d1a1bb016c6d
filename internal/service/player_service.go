package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"

	"nodewars/internal/cache"
	"nodewars/internal/model"
	"nodewars/internal/repository"
)

// URLSigner produces a fetchable URL for a stored media key
type URLSigner interface {
	SignURL(key string) (string, error)
}

// ProfileService builds roster decoration for players
type ProfileService struct {
	userRepo     repository.UserRepo
	profileCache cache.ProfileCache
	signer       URLSigner
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo repository.UserRepo,
	profileCache cache.ProfileCache,
	signer URLSigner,
) *ProfileService {
	return &ProfileService{
		userRepo:     userRepo,
		profileCache: profileCache,
		signer:       signer,
	}
}

// Lookup returns the avatar URL and rating for username. Unknown users get
// an undecorated profile.
func (s *ProfileService) Lookup(ctx context.Context, username string) (*model.Profile, error) {
	if s.profileCache != nil {
		cached, err := s.profileCache.Get(ctx, username)
		if err != nil {
			log.Printf("profile cache get %s: %v", username, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.userRepo.GetByPreferredUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile := &model.Profile{Username: username}
	if user != nil {
		profile.Elo = strconv.Itoa(int(math.Round(user.Elo)))
		if s.signer != nil {
			pfp, err := s.signer.SignURL(user.ProfilePicture)
			if err != nil {
				return nil, err
			}
			profile.Pfp = pfp
		}
	}

	if s.profileCache != nil {
		if err := s.profileCache.Set(ctx, profile); err != nil {
			log.Printf("profile cache set %s: %v", username, err)
		}
	}
	return profile, nil
}
