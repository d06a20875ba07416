// Package queries contains read operations. Zone lookups go through the zone
// repository or the active-zone catalog and reuse the domain resolver; the
// reporting and order reads run raw SQL on GORM.
package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrFindZoneByCoordinateQueryIsNotConstructed = errors.New(
		"FindZoneByCoordinateQuery must be created via NewFindZoneByCoordinateQuery constructor",
	)
	ErrSearchNeighborhoodsQueryIsNotConstructed = errors.New(
		"SearchNeighborhoodsQuery must be created via NewSearchNeighborhoodsQuery constructor",
	)
	ErrValidateOrderForZoneQueryIsNotConstructed = errors.New(
		"ValidateOrderForZoneQuery must be created via NewValidateOrderForZoneQuery constructor",
	)
	ErrListZonesQueryIsNotConstructed = errors.New(
		"ListZonesQuery must be created via NewListZonesQuery constructor",
	)
	ErrGetZoneQueryIsNotConstructed = errors.New(
		"GetZoneQuery must be created via NewGetZoneQuery constructor",
	)
)

// ZoneResponse is the read model of a delivery zone.
type ZoneResponse struct {
	ID                       kernel.UUID
	Code                     string
	Name                     string
	Geometry                 zone.Geometry
	DeliveryFee              kernel.Money
	EstimatedDeliveryMinutes int
	Priority                 int
	Status                   zone.Status
	Landmarks                []string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func zoneResponse(z *zone.Zone) ZoneResponse {
	return ZoneResponse{
		ID:                       z.ID(),
		Code:                     z.Code(),
		Name:                     z.Name(),
		Geometry:                 z.Geometry(),
		DeliveryFee:              z.DeliveryFee(),
		EstimatedDeliveryMinutes: z.EstimatedDeliveryMinutes(),
		Priority:                 z.Priority(),
		Status:                   z.Status(),
		Landmarks:                z.Landmarks(),
		CreatedAt:                z.CreatedAt(),
		UpdatedAt:                z.UpdatedAt(),
	}
}

// FindZoneByCoordinateQuery asks which active zone serves a position.
type FindZoneByCoordinateQuery struct {
	point kernel.GeoPoint
	guard guard.ConstructorGuard
}

// NewFindZoneByCoordinateQuery rejects non-finite or out-of-range coordinates.
func NewFindZoneByCoordinateQuery(longitude, latitude float64) (FindZoneByCoordinateQuery, error) {
	point, err := kernel.NewGeoPoint(longitude, latitude)
	if err != nil {
		return FindZoneByCoordinateQuery{}, err
	}
	return FindZoneByCoordinateQuery{point: point, guard: guard.NewConstructorGuard()}, nil
}

func (q FindZoneByCoordinateQuery) Validate() error {
	return q.guard.Validate(ErrFindZoneByCoordinateQueryIsNotConstructed)
}

func (q FindZoneByCoordinateQuery) Point() kernel.GeoPoint {
	return q.point
}

// FindZoneByCoordinateQueryHandler resolves a point against the active zones.
type FindZoneByCoordinateQueryHandler struct {
	catalog  ports.ZoneCatalog
	resolver services.ZoneResolver
}

func NewFindZoneByCoordinateQueryHandler(catalog ports.ZoneCatalog) FindZoneByCoordinateQueryHandler {
	return FindZoneByCoordinateQueryHandler{catalog: catalog, resolver: services.NewZoneResolver()}
}

// Handle returns the winning zone, or nil when no active zone contains the point.
func (h FindZoneByCoordinateQueryHandler) Handle(ctx context.Context, query FindZoneByCoordinateQuery) (*ZoneResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	zones, err := h.catalog.ActiveZones(ctx)
	if err != nil {
		return nil, err
	}

	found, err := h.resolver.Resolve(query.Point(), zones)
	if errors.Is(err, services.ErrZoneNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	response := zoneResponse(found)
	return &response, nil
}

// SearchNeighborhoodsQuery looks zones up by name or landmark text.
type SearchNeighborhoodsQuery struct {
	text  string
	guard guard.ConstructorGuard
}

func NewSearchNeighborhoodsQuery(text string) (SearchNeighborhoodsQuery, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SearchNeighborhoodsQuery{}, services.ErrQueryIsRequired
	}
	return SearchNeighborhoodsQuery{text: text, guard: guard.NewConstructorGuard()}, nil
}

func (q SearchNeighborhoodsQuery) Validate() error {
	return q.guard.Validate(ErrSearchNeighborhoodsQueryIsNotConstructed)
}

func (q SearchNeighborhoodsQuery) Text() string {
	return q.text
}

// NeighborhoodResponse is one ranked search hit. Landmark is set when the hit
// came from a landmark rather than the zone name.
type NeighborhoodResponse struct {
	Zone     ZoneResponse
	Match    string
	Landmark string
}

// SearchNeighborhoodsQueryHandler searches zones of every status.
type SearchNeighborhoodsQueryHandler struct {
	repo     ports.ZoneRepository
	resolver services.ZoneResolver
}

func NewSearchNeighborhoodsQueryHandler(repo ports.ZoneRepository) SearchNeighborhoodsQueryHandler {
	return SearchNeighborhoodsQueryHandler{repo: repo, resolver: services.NewZoneResolver()}
}

func (h SearchNeighborhoodsQueryHandler) Handle(ctx context.Context, query SearchNeighborhoodsQuery) ([]NeighborhoodResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	candidates, err := h.repo.Search(ctx, query.Text())
	if err != nil {
		return nil, err
	}

	matches, err := h.resolver.Search(query.Text(), candidates)
	if err != nil {
		return nil, err
	}

	responses := make([]NeighborhoodResponse, 0, len(matches))
	for _, m := range matches {
		responses = append(responses, NeighborhoodResponse{
			Zone:     zoneResponse(m.Zone),
			Match:    m.Rank.String(),
			Landmark: m.Landmark,
		})
	}
	return responses, nil
}

// ValidateOrderForZoneQuery checks that orders can be placed into a zone.
type ValidateOrderForZoneQuery struct {
	zoneID kernel.UUID
	guard  guard.ConstructorGuard
}

func NewValidateOrderForZoneQuery(zoneID kernel.UUID) (ValidateOrderForZoneQuery, error) {
	if err := zoneID.Validate(); err != nil {
		return ValidateOrderForZoneQuery{}, errs.NewValueIsInvalidErrorWithCause("zone id", err)
	}
	return ValidateOrderForZoneQuery{zoneID: zoneID, guard: guard.NewConstructorGuard()}, nil
}

func (q ValidateOrderForZoneQuery) Validate() error {
	return q.guard.Validate(ErrValidateOrderForZoneQueryIsNotConstructed)
}

func (q ValidateOrderForZoneQuery) ZoneID() kernel.UUID {
	return q.zoneID
}

// ZoneTermsResponse carries what an order placed into the zone would be charged.
type ZoneTermsResponse struct {
	ZoneID                   kernel.UUID
	Code                     string
	Name                     string
	DeliveryFee              kernel.Money
	EstimatedDeliveryMinutes int
}

type ValidateOrderForZoneQueryHandler struct {
	repo ports.ZoneRepository
}

func NewValidateOrderForZoneQueryHandler(repo ports.ZoneRepository) ValidateOrderForZoneQueryHandler {
	return ValidateOrderForZoneQueryHandler{repo: repo}
}

// Handle returns errs.ErrObjectNotFound for missing and for inactive zones.
func (h ValidateOrderForZoneQueryHandler) Handle(ctx context.Context, query ValidateOrderForZoneQuery) (ZoneTermsResponse, error) {
	if err := query.Validate(); err != nil {
		return ZoneTermsResponse{}, err
	}

	found, err := h.repo.Get(ctx, query.ZoneID())
	if err != nil {
		return ZoneTermsResponse{}, err
	}
	if !found.IsActive() {
		return ZoneTermsResponse{}, errs.NewObjectNotFoundErrorWithCause("zone", query.ZoneID().String(),
			fmt.Errorf("zone %s is %s", found.Code(), found.Status()))
	}

	return ZoneTermsResponse{
		ZoneID:                   found.ID(),
		Code:                     found.Code(),
		Name:                     found.Name(),
		DeliveryFee:              found.DeliveryFee(),
		EstimatedDeliveryMinutes: found.EstimatedDeliveryMinutes(),
	}, nil
}

// ListZonesQuery lists zones, optionally only those in one status.
type ListZonesQuery struct {
	status *zone.Status
	guard  guard.ConstructorGuard
}

func NewListZonesQuery(status *zone.Status) (ListZonesQuery, error) {
	q := ListZonesQuery{guard: guard.NewConstructorGuard()}
	if status != nil {
		if err := status.Validate(); err != nil {
			return ListZonesQuery{}, err
		}
		s := *status
		q.status = &s
	}
	return q, nil
}

func (q ListZonesQuery) Validate() error {
	return q.guard.Validate(ErrListZonesQueryIsNotConstructed)
}

func (q ListZonesQuery) Status() *zone.Status {
	return q.status
}

type ListZonesQueryHandler struct {
	repo ports.ZoneRepository
}

func NewListZonesQueryHandler(repo ports.ZoneRepository) ListZonesQueryHandler {
	return ListZonesQueryHandler{repo: repo}
}

func (h ListZonesQueryHandler) Handle(ctx context.Context, query ListZonesQuery) ([]ZoneResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	zones, err := h.repo.List(ctx, ports.ZoneFilter{Status: query.Status()})
	if err != nil {
		return nil, err
	}

	responses := make([]ZoneResponse, 0, len(zones))
	for _, z := range zones {
		responses = append(responses, zoneResponse(z))
	}
	return responses, nil
}

// GetZoneQuery reads one zone in any status.
type GetZoneQuery struct {
	zoneID kernel.UUID
	guard  guard.ConstructorGuard
}

func NewGetZoneQuery(zoneID kernel.UUID) (GetZoneQuery, error) {
	if err := zoneID.Validate(); err != nil {
		return GetZoneQuery{}, errs.NewValueIsInvalidErrorWithCause("zone id", err)
	}
	return GetZoneQuery{zoneID: zoneID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetZoneQuery) Validate() error {
	return q.guard.Validate(ErrGetZoneQueryIsNotConstructed)
}

func (q GetZoneQuery) ZoneID() kernel.UUID {
	return q.zoneID
}

type GetZoneQueryHandler struct {
	repo ports.ZoneRepository
}

func NewGetZoneQueryHandler(repo ports.ZoneRepository) GetZoneQueryHandler {
	return GetZoneQueryHandler{repo: repo}
}

func (h GetZoneQueryHandler) Handle(ctx context.Context, query GetZoneQuery) (ZoneResponse, error) {
	if err := query.Validate(); err != nil {
		return ZoneResponse{}, err
	}

	found, err := h.repo.Get(ctx, query.ZoneID())
	if err != nil {
		return ZoneResponse{}, err
	}
	return zoneResponse(found), nil
}
