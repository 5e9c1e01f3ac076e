package properties

import (
	"context"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	"stayhub/internal/domain/auth"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/user"
)

const (
	getPropertyKey        = "properties.get"
	listHostPropertiesKey = "properties.host.list"
)

type GetPropertyQuery struct {
	PropertyID string `validate:"required"`
}

func (q GetPropertyQuery) Key() string { return getPropertyKey }

// GetPropertyHandler returns a non-deleted property with everything it owns.
type GetPropertyHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetPropertyHandler) Handle(ctx context.Context, q GetPropertyQuery) (dto.PropertyDetail, error) {
	unit, ctx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.PropertyDetail{}, err
	}
	defer release()

	id := domainproperties.PropertyID(q.PropertyID)
	graph, err := unit.Properties().ByID(ctx, id)
	if err != nil {
		return dto.PropertyDetail{}, err
	}
	prop, ok := graph.Property(id)
	if !ok {
		return dto.PropertyDetail{}, domainproperties.ErrNotFound
	}
	return dto.MapPropertyDetail(graph, prop), nil
}

// ListHostPropertiesQuery lists the caller's properties.
type ListHostPropertiesQuery struct{}

func (q ListHostPropertiesQuery) Key() string                { return listHostPropertiesKey }
func (q ListHostPropertiesQuery) RequiredRoles() []user.Role { return policies.HostRoles() }

type ListHostPropertiesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListHostPropertiesHandler) Handle(ctx context.Context, _ ListHostPropertiesQuery) (dto.HostPropertyList, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return dto.HostPropertyList{}, policies.ErrUnauthenticated
	}
	unit, ctx, release, err := uow.ReadOnly(ctx, h.UoWFactory)
	if err != nil {
		return dto.HostPropertyList{}, err
	}
	defer release()

	items, err := unit.Properties().ListByHost(ctx, domainproperties.HostID(principal.UserID))
	if err != nil {
		return dto.HostPropertyList{}, err
	}
	return dto.MapHostProperties(items), nil
}

var (
	_ queries.Handler[GetPropertyQuery, dto.PropertyDetail]          = (*GetPropertyHandler)(nil)
	_ queries.Handler[ListHostPropertiesQuery, dto.HostPropertyList] = (*ListHostPropertiesHandler)(nil)
)
