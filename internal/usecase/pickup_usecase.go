package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/pickup"
	"bhangari/internal/domain/repository"
	"bhangari/internal/infrastructure/websocket"
	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
	"bhangari/pkg/utils"
)

const (
	maxPickupImages = 5
	maxNotesLength  = 500
)

type PickupUseCase struct {
	pickupRepo repository.PickupRepository
	userRepo   repository.UserRepository
	prices     *PriceUseCase
	events     EventPublisher
	realtime   RealtimePublisher
	location   *time.Location
	now        func() time.Time
}

func NewPickupUseCase(
	pickupRepo repository.PickupRepository,
	userRepo repository.UserRepository,
	prices *PriceUseCase,
	events EventPublisher,
	realtime RealtimePublisher,
	location *time.Location,
) *PickupUseCase {
	if location == nil {
		location = time.UTC
	}
	return &PickupUseCase{
		pickupRepo: pickupRepo,
		userRepo:   userRepo,
		prices:     prices,
		events:     events,
		realtime:   realtime,
		location:   location,
		now:        time.Now,
	}
}

type MaterialInput struct {
	Name     string
	Icon     string
	Quantity float64
	Unit     string
	Price    string
}

type CreatePickupInput struct {
	Materials []MaterialInput
	Images    []string
	Date      string
	TimeSlot  string
	Address   string
	Phone     string
	Notes     string
}

type EstimateLine struct {
	Name         string  `json:"name"`
	Price        string  `json:"price"`
	Quantity     float64 `json:"quantity"`
	AveragePrice float64 `json:"average_price"`
	Subtotal     float64 `json:"subtotal"`
}

type Estimate struct {
	Lines             []EstimateLine `json:"lines"`
	EstimatedEarnings int            `json:"estimated_earnings"`
}

// TransitionOptions carries the optional inputs of a status change.
type TransitionOptions struct {
	ExpectedStatus pickup.Status
	Reason         string
	ActualEarnings *float64
}

// resolveMaterials prices every line. Catalog materials always take the
// catalog's price and unit; a client price is only accepted for materials
// the catalog does not know.
func (uc *PickupUseCase) resolveMaterials(inputs []MaterialInput) ([]entity.Material, error) {
	if len(inputs) == 0 {
		return nil, errors.Validation("At least one material is required")
	}

	materials := make([]entity.Material, 0, len(inputs))
	for _, in := range inputs {
		m := entity.Material{
			Name:     strings.TrimSpace(in.Name),
			Icon:     in.Icon,
			Quantity: in.Quantity,
			Unit:     strings.TrimSpace(in.Unit),
			Price:    strings.TrimSpace(in.Price),
		}
		if m.Name == "" {
			return nil, errors.Validation("Material name is required")
		}
		if m.Quantity < 1 {
			return nil, errors.Validation("Quantity of " + m.Name + " must be at least 1")
		}

		if opt, ok := uc.prices.FindMaterial(m.Name); ok {
			m.Price = opt.Price
			m.Unit = opt.Unit
			if m.Icon == "" {
				m.Icon = opt.Icon
			}
		}
		if m.Price == "" {
			return nil, errors.Validation("Unknown material " + m.Name + " needs a price")
		}
		materials = append(materials, m)
	}
	return materials, nil
}

func (uc *PickupUseCase) Estimate(ctx context.Context, inputs []MaterialInput) (*Estimate, error) {
	materials, err := uc.resolveMaterials(inputs)
	if err != nil {
		return nil, err
	}

	est := &Estimate{Lines: make([]EstimateLine, 0, len(materials))}
	for _, m := range materials {
		avg, _ := utils.AveragePrice(m.Price)
		est.Lines = append(est.Lines, EstimateLine{
			Name:         m.Name,
			Price:        m.Price,
			Quantity:     m.Quantity,
			AveragePrice: avg,
			Subtotal:     avg * m.Quantity,
		})
	}
	est.EstimatedEarnings = utils.CalculateEarnings(entity.PricedQuantities(materials))
	return est, nil
}

func (uc *PickupUseCase) CreateRequest(ctx context.Context, actor Actor, input CreatePickupInput) (*entity.PickupRequest, error) {
	if actor.Role != entity.RoleHousehold {
		return nil, errors.Forbidden("Only households can request a pickup", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	materials, err := uc.resolveMaterials(input.Materials)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	date, ok := utils.FindDate(input.Date, now.In(uc.location))
	if !ok {
		return nil, errors.Validation("Pickup date must be within the next 7 days")
	}
	slot, ok := utils.FindTimeSlot(input.TimeSlot)
	if !ok {
		return nil, errors.Validation("Unknown time slot")
	}

	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, errors.Validation("Address is required")
	}
	phone := utils.ToASCIIDigits(strings.TrimSpace(input.Phone))
	if !utils.IsValidPhone(phone) {
		return nil, errors.Validation("Phone number must be a valid Bangladeshi mobile number")
	}
	if len(input.Images) > maxPickupImages {
		return nil, errors.Validation("At most 5 images can be attached")
	}
	notes := strings.TrimSpace(input.Notes)
	if len([]rune(notes)) > maxNotesLength {
		return nil, errors.Validation("Notes are too long")
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	req := &entity.PickupRequest{
		ID:        uuid.New().String(),
		UserID:    actor.ID,
		UserEmail: user.Email,
		Materials: materials,
		Images:    images,
		Schedule: entity.Schedule{
			Date:        date.Value,
			DateDisplay: date.Display,
			TimeSlot:    slot.Label,
			TimeValue:   slot.Value,
		},
		Address:           address,
		Phone:             phone,
		Notes:             notes,
		Status:            pickup.StatusPending,
		EstimatedEarnings: utils.CalculateEarnings(entity.PricedQuantities(materials)),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	entry := &entity.PickupStatusLog{
		ID:        uuid.New().String(),
		To:        pickup.StatusPending,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		CreatedAt: now,
	}

	if err := uc.pickupRepo.Create(ctx, req, entry); err != nil {
		return nil, err
	}

	logger.Info("Pickup request %s created by %s", req.ID, actor.ID)
	uc.publish(ctx, req, "", actor, "")
	return req, nil
}

// canView allows the owner, the assigned collector and, while the request
// is still open, any collector.
func canView(actor Actor, req *entity.PickupRequest) bool {
	switch {
	case req.UserID == actor.ID:
		return true
	case req.CollectorID != "" && req.CollectorID == actor.ID:
		return true
	case actor.Role == entity.RoleCollector && req.Status == pickup.StatusPending:
		return true
	}
	return false
}

func (uc *PickupUseCase) GetRequest(ctx context.Context, actor Actor, id string) (*entity.PickupRequest, error) {
	req, err := uc.pickupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, req) {
		return nil, errors.Forbidden("You do not have access to this pickup request", nil)
	}
	return req, nil
}

func parseStatusFilter(status string) (pickup.Status, error) {
	if status == "" || status == "all" {
		return "", nil
	}
	s, err := pickup.Parse(status)
	if err != nil {
		return "", errors.Validation("Unknown status filter " + status)
	}
	return s, nil
}

func (uc *PickupUseCase) ListHistory(ctx context.Context, actor Actor, status string, params utils.PaginationParams) ([]*entity.PickupRequest, int64, error) {
	s, err := parseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}
	return uc.pickupRepo.List(ctx, repository.PickupListFilter{
		UserID: actor.ID,
		Status: s,
		Limit:  params.PageSize,
		Offset: params.Offset,
	})
}

func (uc *PickupUseCase) ListAvailable(ctx context.Context, actor Actor, params utils.PaginationParams) ([]*entity.PickupRequest, int64, error) {
	if actor.Role != entity.RoleCollector {
		return nil, 0, errors.Forbidden("Only collectors can browse available pickups", nil)
	}
	return uc.pickupRepo.List(ctx, repository.PickupListFilter{
		Status: pickup.StatusPending,
		Limit:  params.PageSize,
		Offset: params.Offset,
	})
}

func (uc *PickupUseCase) ListAssigned(ctx context.Context, actor Actor, status string, params utils.PaginationParams) ([]*entity.PickupRequest, int64, error) {
	if actor.Role != entity.RoleCollector {
		return nil, 0, errors.Forbidden("Only collectors have assigned pickups", nil)
	}
	s, err := parseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}
	return uc.pickupRepo.List(ctx, repository.PickupListFilter{
		CollectorID: actor.ID,
		Status:      s,
		Limit:       params.PageSize,
		Offset:      params.Offset,
	})
}

func (uc *PickupUseCase) ListStatusLogs(ctx context.Context, actor Actor, id string) ([]*entity.PickupStatusLog, error) {
	if _, err := uc.GetRequest(ctx, actor, id); err != nil {
		return nil, err
	}
	return uc.pickupRepo.ListStatusLogs(ctx, id)
}

func (uc *PickupUseCase) Accept(ctx context.Context, actor Actor, id string, opts TransitionOptions) (*entity.PickupRequest, error) {
	return uc.Transition(ctx, actor, id, pickup.StatusAccepted, opts)
}

func (uc *PickupUseCase) StartTrip(ctx context.Context, actor Actor, id string, opts TransitionOptions) (*entity.PickupRequest, error) {
	return uc.Transition(ctx, actor, id, pickup.StatusOnTheWay, opts)
}

func (uc *PickupUseCase) Arrive(ctx context.Context, actor Actor, id string, opts TransitionOptions) (*entity.PickupRequest, error) {
	return uc.Transition(ctx, actor, id, pickup.StatusAtLocation, opts)
}

func (uc *PickupUseCase) StartCollection(ctx context.Context, actor Actor, id string, opts TransitionOptions) (*entity.PickupRequest, error) {
	return uc.Transition(ctx, actor, id, pickup.StatusInProgress, opts)
}

func (uc *PickupUseCase) Complete(ctx context.Context, actor Actor, id string, opts TransitionOptions) (*entity.PickupRequest, error) {
	if opts.ActualEarnings != nil && *opts.ActualEarnings < 0 {
		return nil, errors.Validation("Actual earnings cannot be negative")
	}
	return uc.Transition(ctx, actor, id, pickup.StatusCompleted, opts)
}

func (uc *PickupUseCase) Cancel(ctx context.Context, actor Actor, id string, opts TransitionOptions) (*entity.PickupRequest, error) {
	if len([]rune(opts.Reason)) > maxNotesLength {
		return nil, errors.Validation("Cancellation reason is too long")
	}
	return uc.Transition(ctx, actor, id, pickup.StatusCancelled, opts)
}

// Transition moves a request to status `to` on behalf of actor. The check
// and the write happen in one repository transaction, so of two collectors
// accepting the same request only one succeeds.
func (uc *PickupUseCase) Transition(ctx context.Context, actor Actor, id string, to pickup.Status, opts TransitionOptions) (*entity.PickupRequest, error) {
	if !pickup.CanActorEnter(to, actor.Role) {
		return nil, errors.Forbidden("Your role cannot move a pickup to "+string(to), nil)
	}

	var from pickup.Status
	reason := strings.TrimSpace(opts.Reason)

	updated, err := uc.pickupRepo.Transition(ctx, id, func(req *entity.PickupRequest) (*entity.PickupStatusLog, error) {
		from = req.Status

		if err := authorizeTransition(actor, req, to); err != nil {
			return nil, err
		}
		if opts.ExpectedStatus != "" && req.Status != opts.ExpectedStatus {
			return nil, statusConflict(req.Status, "Pickup request is no longer "+string(opts.ExpectedStatus))
		}
		if err := pickup.CanTransition(req.Status, to, actor.Role); err != nil {
			return nil, statusConflict(req.Status, err.Error())
		}

		now := uc.now()
		req.Status = to
		req.Stamp(to, now)
		req.UpdatedAt = now

		switch to {
		case pickup.StatusAccepted:
			req.CollectorID = actor.ID
		case pickup.StatusCompleted:
			if opts.ActualEarnings != nil {
				earned := *opts.ActualEarnings
				req.ActualEarnings = &earned
			}
		case pickup.StatusCancelled:
			req.CancellationReason = reason
			req.CancelledBy = actor.Role
		}

		return &entity.PickupStatusLog{
			ID:        uuid.New().String(),
			From:      from,
			To:        to,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Note:      reason,
			CreatedAt: now,
		}, nil
	})
	if err != nil {
		if errors.Is(err, "CONFLICT") {
			logger.LogPickupError(id, string(to), err)
		}
		return nil, err
	}

	logger.Info("Pickup request %s moved %s -> %s by %s", id, from, to, actor.ID)
	uc.publish(ctx, updated, from, actor, reason)
	return updated, nil
}

func authorizeTransition(actor Actor, req *entity.PickupRequest, to pickup.Status) error {
	switch actor.Role {
	case entity.RoleHousehold:
		if req.UserID != actor.ID {
			return errors.Forbidden("Only the owner can change this pickup request", nil)
		}
	case entity.RoleCollector:
		// any collector may try to accept; the state machine settles races
		if to == pickup.StatusAccepted {
			return nil
		}
		if req.CollectorID != actor.ID {
			return errors.Forbidden("This pickup is not assigned to you", nil)
		}
	default:
		return errors.Forbidden("Unknown role", nil)
	}
	return nil
}

func statusConflict(current pickup.Status, message string) error {
	next := pickup.ValidTransitionsFrom(current)
	if next == nil {
		next = []pickup.Status{}
	}
	return errors.Conflict(message).WithDetails(map[string]interface{}{
		"current_status":    current,
		"valid_next_states": next,
	})
}

// publish is best effort: the transition is already committed.
func (uc *PickupUseCase) publish(ctx context.Context, req *entity.PickupRequest, from pickup.Status, actor Actor, reason string) {
	event := entity.PickupEvent{
		RequestID:   req.ID,
		HouseholdID: req.UserID,
		CollectorID: req.CollectorID,
		From:        from,
		To:          req.Status,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Reason:      reason,
		OccurredAt:  req.UpdatedAt,
	}

	if uc.events != nil {
		if err := uc.events.PublishPickupEvent(ctx, event); err != nil {
			logger.Error("Failed to publish pickup event for %s: %v", req.ID, err)
		}
	}

	if uc.realtime == nil || from == "" {
		return
	}
	for _, userID := range []string{req.UserID, req.CollectorID} {
		if userID == "" {
			continue
		}
		if err := uc.realtime.Publish(ctx, userID, websocket.EventPickupStatus, event); err != nil {
			logger.Warn("Failed to push pickup status to %s: %v", userID, err)
		}
	}
}
