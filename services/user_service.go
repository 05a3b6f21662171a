package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/models"
	"github.com/foodgram-api/repositories"
	"gorm.io/gorm"
)

// DefaultPageSize is the list limit for users and subscriptions
const DefaultPageSize = 10

// UserService handles business logic for the user directory and subscriptions
type UserService struct {
	userRepo      *repositories.UserRepository
	recipeRepo    *repositories.RecipeRepository
	presenter     *Presenter
	subscriptions *Toggle[models.Subscription]
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo *repositories.UserRepository,
	recipeRepo *repositories.RecipeRepository,
	presenter *Presenter,
	subscriptions *Toggle[models.Subscription],
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		recipeRepo:    recipeRepo,
		presenter:     presenter,
		subscriptions: subscriptions,
	}
}

// List retrieves users with pagination
func (s *UserService) List(ctx context.Context, actor *models.User, p dto.Pagination) (dto.ListResponse[dto.UserResponse], error) {
	p = p.Normalize(DefaultPageSize)

	users, totalCount, err := s.userRepo.FindWithPagination(ctx, p)
	if err != nil {
		return dto.ListResponse[dto.UserResponse]{}, fmt.Errorf("list users: %w", err)
	}
	results, err := s.presenter.Users(ctx, actor, users)
	if err != nil {
		return dto.ListResponse[dto.UserResponse]{}, err
	}
	return dto.NewListResponse(results, totalCount, p), nil
}

// Get retrieves a user profile
func (s *UserService) Get(ctx context.Context, actor *models.User, id uint) (dto.UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return s.presenter.User(ctx, actor, user)
}

// Me returns the requester's own profile
func (s *UserService) Me(ctx context.Context, actor *models.User) (dto.UserResponse, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return dto.UserResponse{}, err
	}
	return s.presenter.User(ctx, actor, *actor)
}

// Delete removes a user account. Staff only; authored recipes are kept without an author.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := RequireStaff(actor); err != nil {
		return err
	}
	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Subscribe makes actor follow the author
func (s *UserService) Subscribe(ctx context.Context, actor *models.User, authorID uint, recipesLimit int) (dto.SubscriptionResponse, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return dto.SubscriptionResponse{}, err
	}
	author, err := s.find(ctx, authorID)
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}
	if author.ID == actor.ID {
		s.subscriptions.Reject("add")
		return dto.SubscriptionResponse{}, ErrSelfSubscription
	}

	if err := s.subscriptions.Add(ctx, actor.ID, author.ID); err != nil {
		return dto.SubscriptionResponse{}, err
	}
	return s.subscription(ctx, author, true, recipesLimit)
}

// Unsubscribe stops actor following the author
func (s *UserService) Unsubscribe(ctx context.Context, actor *models.User, authorID uint) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	author, err := s.find(ctx, authorID)
	if err != nil {
		return err
	}
	if author.ID == actor.ID {
		s.subscriptions.Reject("remove")
		return ErrSelfSubscription
	}
	return s.subscriptions.Remove(ctx, actor.ID, author.ID)
}

// Subscriptions lists the authors actor follows, each with up to recipesLimit
// of their newest recipes. A recipesLimit of 0 or less embeds every recipe.
func (s *UserService) Subscriptions(ctx context.Context, actor *models.User, p dto.Pagination, recipesLimit int) (dto.ListResponse[dto.SubscriptionResponse], error) {
	if err := RequireAuthenticated(actor); err != nil {
		return dto.ListResponse[dto.SubscriptionResponse]{}, err
	}
	p = p.Normalize(DefaultPageSize)

	authors, totalCount, err := s.userRepo.FindSubscribedAuthors(ctx, actor.ID, p)
	if err != nil {
		return dto.ListResponse[dto.SubscriptionResponse]{}, fmt.Errorf("list subscriptions: %w", err)
	}

	results := make([]dto.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		sub, err := s.subscription(ctx, author, true, recipesLimit)
		if err != nil {
			return dto.ListResponse[dto.SubscriptionResponse]{}, err
		}
		results = append(results, sub)
	}
	return dto.NewListResponse(results, totalCount, p), nil
}

func (s *UserService) subscription(ctx context.Context, author models.User, subscribed bool, recipesLimit int) (dto.SubscriptionResponse, error) {
	recipes, err := s.recipeRepo.FindByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return dto.SubscriptionResponse{}, fmt.Errorf("load author recipes: %w", err)
	}
	count, err := s.recipeRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return dto.SubscriptionResponse{}, fmt.Errorf("count author recipes: %w", err)
	}

	short := make([]dto.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, dto.NewRecipeShortResponse(r))
	}
	return dto.SubscriptionResponse{
		UserResponse: newUserResponse(author, subscribed),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

func (s *UserService) find(ctx context.Context, id uint) (models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
