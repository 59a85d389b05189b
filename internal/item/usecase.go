package item

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/item/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// UseCase methods that mutate take the admin credential explicitly.
type UseCase interface {
	CreateItem(ctx context.Context, credential string, input *dto.CreateItemInput) (*model.Item, error)
	UpdateItem(ctx context.Context, credential string, input *dto.UpdateItemInput) (*model.Item, error)
	DeleteItem(ctx context.Context, credential string, id string) error
	GetItem(ctx context.Context, id string) (*model.ItemView, error)
	ListItems(ctx context.Context) ([]model.ItemView, error)
}
