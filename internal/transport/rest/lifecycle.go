package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/verdantlabs/seedtrace-backend/internal/domain"
	"github.com/verdantlabs/seedtrace-backend/internal/service/lifecycle"
)

// lifecycleService defines the minimal interface needed by LifecycleHandler.
type lifecycleService interface {
	CreatePlant(ctx context.Context, input lifecycle.CreatePlantInput) (domain.Plant, error)
	GetPlant(ctx context.Context, plantID uuid.UUID) (domain.Plant, error)
	UpdatePlant(ctx context.Context, input lifecycle.UpdatePlantInput) (domain.Plant, error)
	SoftDeletePlant(ctx context.Context, input lifecycle.DeletePlantInput) error
	GetPlantHistory(ctx context.Context, plantID uuid.UUID, limit int) ([]domain.AuditRecord, error)
	ConvertToMother(ctx context.Context, input lifecycle.ConvertToMotherInput) (domain.Plant, error)
	GenerateClones(ctx context.Context, input lifecycle.GenerateOffspringInput) (lifecycle.OffspringResult, error)
	GenerateSeeds(ctx context.Context, input lifecycle.GenerateOffspringInput) (lifecycle.OffspringResult, error)
	CreateRoomMove(ctx context.Context, input lifecycle.CreateRoomMoveInput) (lifecycle.RoomMoveResult, error)
	CreateHarvest(ctx context.Context, input lifecycle.CreateHarvestInput) (domain.Harvest, error)
	CreateCure(ctx context.Context, input lifecycle.CreateCureInput) (lifecycle.CureResult, error)
	CreateDestruction(ctx context.Context, input lifecycle.CreateDestructionInput) (domain.Destruction, error)
	UndoOperation(ctx context.Context, input lifecycle.UndoOperationInput) (domain.AuditRecord, error)
}

// LifecycleHandler serves the cultivation lifecycle REST endpoints.
type LifecycleHandler struct {
	svc lifecycleService
	log *slog.Logger
}

// NewLifecycleHandler creates a LifecycleHandler.
func NewLifecycleHandler(svc lifecycleService, logger *slog.Logger) *LifecycleHandler {
	return &LifecycleHandler{svc: svc, log: logger.With("handler", "lifecycle")}
}

type createPlantRequest struct {
	Strain            string  `json:"strain"`
	RoomID            string  `json:"roomId"`
	Phase             string  `json:"phase"`
	Notes             string  `json:"notes"`
	SourceInventoryID *string `json:"sourceInventoryId"`
	ConsumeAmount     int     `json:"consumeAmount"`
}

type updatePlantRequest struct {
	Strain            *string `json:"strain"`
	RoomID            *string `json:"roomId"`
	Phase             *string `json:"phase"`
	Notes             *string `json:"notes"`
	SourceInventoryID *string `json:"sourceInventoryId"`
}

type roomMoveRequest struct {
	PlantID         *string `json:"plantId"`
	InventoryItemID *string `json:"inventoryItemId"`
	ToRoomID        string  `json:"toRoomId"`
}

type motherRequest struct {
	Notes string `json:"notes"`
}

type offspringRequest struct {
	Quantity int    `json:"quantity"`
	RoomID   string `json:"roomId"`
	Notes    string `json:"notes"`
}

type harvestRequest struct {
	BatchID               string  `json:"batchId"`
	WetFlowerWeightGrams  float64 `json:"wetFlowerWeightGrams"`
	WetOtherMaterialGrams float64 `json:"wetOtherMaterialGrams"`
	WetWasteWeightGrams   float64 `json:"wetWasteWeightGrams"`
}

type cureRequest struct {
	DryFlowerWeightGrams  float64 `json:"dryFlowerWeightGrams"`
	DryOtherMaterialGrams float64 `json:"dryOtherMaterialGrams"`
	DryWasteWeightGrams   float64 `json:"dryWasteWeightGrams"`
}

type destructionRequest struct {
	PlantID          *string `json:"plantId"`
	InventoryItemID  *string `json:"inventoryItemId"`
	Reason           string  `json:"reason"`
	WasteWeightGrams float64 `json:"wasteWeightGrams"`
}

type undoRequest struct {
	AuditLogID string `json:"auditLogId"`
	Reason     string `json:"reason"`
}

type plantResponse struct {
	ID                uuid.UUID  `json:"id"`
	LocationID        uuid.UUID  `json:"locationId"`
	Strain            string     `json:"strain"`
	RoomID            uuid.UUID  `json:"roomId"`
	Phase             string     `json:"phase"`
	Status            string     `json:"status"`
	IsMother          bool       `json:"isMother"`
	Notes             string     `json:"notes,omitempty"`
	SourceInventoryID *uuid.UUID `json:"sourceInventoryId,omitempty"`
	CloneCount        int        `json:"cloneCount"`
	SeedCount         int        `json:"seedCount"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type inventoryItemResponse struct {
	ID                uuid.UUID  `json:"id"`
	LocationID        uuid.UUID  `json:"locationId"`
	InventoryTypeID   uuid.UUID  `json:"inventoryTypeId"`
	RoomID            *uuid.UUID `json:"roomId,omitempty"`
	Strain            string     `json:"strain,omitempty"`
	BatchNumber       string     `json:"batchNumber,omitempty"`
	Barcode           string     `json:"barcode"`
	WeightGrams       float64    `json:"weightGrams"`
	UsableWeightGrams float64    `json:"usableWeightGrams,omitempty"`
	Quantity          int        `json:"quantity"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type harvestResponse struct {
	ID                    uuid.UUID `json:"id"`
	PlantID               uuid.UUID `json:"plantId"`
	BatchID               string    `json:"batchId"`
	WetFlowerWeightGrams  float64   `json:"wetFlowerWeightGrams"`
	WetOtherMaterialGrams float64   `json:"wetOtherMaterialGrams"`
	WetWasteWeightGrams   float64   `json:"wetWasteWeightGrams"`
	CreatedAt             time.Time `json:"createdAt"`
}

type cureResponse struct {
	ID                    uuid.UUID               `json:"id"`
	HarvestID             uuid.UUID               `json:"harvestId"`
	PlantID               uuid.UUID               `json:"plantId"`
	DryFlowerWeightGrams  float64                 `json:"dryFlowerWeightGrams"`
	DryOtherMaterialGrams float64                 `json:"dryOtherMaterialGrams"`
	DryWasteWeightGrams   float64                 `json:"dryWasteWeightGrams"`
	CreatedAt             time.Time               `json:"createdAt"`
	InventoryItems        []inventoryItemResponse `json:"inventoryItems"`
	WasteDestructionID    *uuid.UUID              `json:"wasteDestructionId,omitempty"`
}

type roomMoveResponse struct {
	ID              uuid.UUID      `json:"id"`
	PlantID         *uuid.UUID     `json:"plantId,omitempty"`
	InventoryItemID *uuid.UUID     `json:"inventoryItemId,omitempty"`
	FromRoomID      *uuid.UUID     `json:"fromRoomId,omitempty"`
	ToRoomID        uuid.UUID      `json:"toRoomId"`
	CreatedAt       time.Time      `json:"createdAt"`
	Plant           *plantResponse `json:"plant,omitempty"`
}

type destructionResponse struct {
	ID               uuid.UUID  `json:"id"`
	PlantID          *uuid.UUID `json:"plantId,omitempty"`
	InventoryItemID  *uuid.UUID `json:"inventoryItemId,omitempty"`
	Reason           string     `json:"reason"`
	WasteWeightGrams float64    `json:"wasteWeightGrams"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type offspringResponse struct {
	Mother plantResponse         `json:"mother"`
	Batch  inventoryItemResponse `json:"batch"`
}

type auditRecordResponse struct {
	ID         uuid.UUID          `json:"id"`
	UserID     *uuid.UUID         `json:"userId,omitempty"`
	Module     string             `json:"module"`
	EntityType string             `json:"entityType"`
	EntityID   uuid.UUID          `json:"entityId"`
	Action     string             `json:"action"`
	Details    domain.AuditDetails `json:"details,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// CreatePlant handles POST /plants.
func (h *LifecycleHandler) CreatePlant(w http.ResponseWriter, r *http.Request) {
	var req createPlantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := lifecycle.CreatePlantInput{
		Strain:        req.Strain,
		Phase:         domain.PlantPhase(req.Phase),
		Notes:         req.Notes,
		ConsumeAmount: req.ConsumeAmount,
	}
	if req.RoomID != "" {
		id, err := uuid.Parse(req.RoomID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid roomId")
			return
		}
		input.RoomID = id
	}
	if req.SourceInventoryID != nil {
		id, err := uuid.Parse(*req.SourceInventoryID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sourceInventoryId")
			return
		}
		input.SourceInventoryID = &id
	}

	plant, err := h.svc.CreatePlant(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPlantResponse(plant))
}

// GetPlant handles GET /plants/{id}.
func (h *LifecycleHandler) GetPlant(w http.ResponseWriter, r *http.Request) {
	plantID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plant, err := h.svc.GetPlant(r.Context(), plantID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlantResponse(plant))
}

// UpdatePlant handles PATCH /plants/{id}.
func (h *LifecycleHandler) UpdatePlant(w http.ResponseWriter, r *http.Request) {
	plantID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updatePlantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := domain.PlantPatch{
		Strain: req.Strain,
		Notes:  req.Notes,
	}
	if req.Phase != nil {
		phase := domain.PlantPhase(*req.Phase)
		patch.Phase = &phase
	}
	if req.RoomID != nil {
		id, err := uuid.Parse(*req.RoomID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid roomId")
			return
		}
		patch.RoomID = &id
	}
	if req.SourceInventoryID != nil {
		id, err := uuid.Parse(*req.SourceInventoryID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sourceInventoryId")
			return
		}
		patch.SourceInventoryID = &id
	}

	plant, err := h.svc.UpdatePlant(r.Context(), lifecycle.UpdatePlantInput{
		PlantID: plantID,
		Patch:   patch,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlantResponse(plant))
}

// DeletePlant handles DELETE /plants/{id}.
func (h *LifecycleHandler) DeletePlant(w http.ResponseWriter, r *http.Request) {
	plantID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.SoftDeletePlant(r.Context(), lifecycle.DeletePlantInput{PlantID: plantID}); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PlantHistory handles GET /plants/{id}/history.
func (h *LifecycleHandler) PlantHistory(w http.ResponseWriter, r *http.Request) {
	plantID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := queryInt(r, "limit", 50)

	records, err := h.svc.GetPlantHistory(r.Context(), plantID, limit)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuditRecordResponses(records))
}

// ConvertToMother handles POST /plants/{id}/mother.
func (h *LifecycleHandler) ConvertToMother(w http.ResponseWriter, r *http.Request) {
	plantID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req motherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plant, err := h.svc.ConvertToMother(r.Context(), lifecycle.ConvertToMotherInput{
		PlantID: plantID,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlantResponse(plant))
}

// GenerateClones handles POST /plants/{id}/clones.
func (h *LifecycleHandler) GenerateClones(w http.ResponseWriter, r *http.Request) {
	h.generateOffspring(w, r, h.svc.GenerateClones)
}

// GenerateSeeds handles POST /plants/{id}/seeds.
func (h *LifecycleHandler) GenerateSeeds(w http.ResponseWriter, r *http.Request) {
	h.generateOffspring(w, r, h.svc.GenerateSeeds)
}

func (h *LifecycleHandler) generateOffspring(
	w http.ResponseWriter,
	r *http.Request,
	generate func(context.Context, lifecycle.GenerateOffspringInput) (lifecycle.OffspringResult, error),
) {
	plantID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req offspringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := lifecycle.GenerateOffspringInput{
		MotherPlantID: plantID,
		Quantity:      req.Quantity,
		Notes:         req.Notes,
	}
	if req.RoomID != "" {
		id, err := uuid.Parse(req.RoomID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid roomId")
			return
		}
		input.RoomID = id
	}

	result, err := generate(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, offspringResponse{
		Mother: toPlantResponse(result.Mother),
		Batch:  toInventoryItemResponse(result.Batch),
	})
}

// CreateHarvest handles POST /plants/{id}/harvests.
func (h *LifecycleHandler) CreateHarvest(w http.ResponseWriter, r *http.Request) {
	plantID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req harvestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	harvest, err := h.svc.CreateHarvest(r.Context(), lifecycle.CreateHarvestInput{
		PlantID:               plantID,
		BatchID:               req.BatchID,
		WetFlowerWeightGrams:  req.WetFlowerWeightGrams,
		WetOtherMaterialGrams: req.WetOtherMaterialGrams,
		WetWasteWeightGrams:   req.WetWasteWeightGrams,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toHarvestResponse(harvest))
}

// CreateCure handles POST /harvests/{id}/cures.
func (h *LifecycleHandler) CreateCure(w http.ResponseWriter, r *http.Request) {
	harvestID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req cureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.CreateCure(r.Context(), lifecycle.CreateCureInput{
		HarvestID:             harvestID,
		DryFlowerWeightGrams:  req.DryFlowerWeightGrams,
		DryOtherMaterialGrams: req.DryOtherMaterialGrams,
		DryWasteWeightGrams:   req.DryWasteWeightGrams,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCureResponse(result))
}

// CreateRoomMove handles POST /room-moves.
func (h *LifecycleHandler) CreateRoomMove(w http.ResponseWriter, r *http.Request) {
	var req roomMoveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := lifecycle.CreateRoomMoveInput{}
	if req.PlantID != nil {
		id, err := uuid.Parse(*req.PlantID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid plantId")
			return
		}
		input.PlantID = &id
	}
	if req.InventoryItemID != nil {
		id, err := uuid.Parse(*req.InventoryItemID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid inventoryItemId")
			return
		}
		input.InventoryItemID = &id
	}
	if req.ToRoomID != "" {
		id, err := uuid.Parse(req.ToRoomID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid toRoomId")
			return
		}
		input.ToRoomID = id
	}

	result, err := h.svc.CreateRoomMove(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := roomMoveResponse{
		ID:              result.Move.ID,
		PlantID:         result.Move.PlantID,
		InventoryItemID: result.Move.InventoryItemID,
		FromRoomID:      result.Move.FromRoomID,
		ToRoomID:        result.Move.ToRoomID,
		CreatedAt:       result.Move.CreatedAt,
	}
	if result.Plant != nil {
		plant := toPlantResponse(*result.Plant)
		resp.Plant = &plant
	}

	writeJSON(w, http.StatusCreated, resp)
}

// CreateDestruction handles POST /destructions.
func (h *LifecycleHandler) CreateDestruction(w http.ResponseWriter, r *http.Request) {
	var req destructionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := lifecycle.CreateDestructionInput{
		Reason:           req.Reason,
		WasteWeightGrams: req.WasteWeightGrams,
	}
	if req.PlantID != nil {
		id, err := uuid.Parse(*req.PlantID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid plantId")
			return
		}
		input.PlantID = &id
	}
	if req.InventoryItemID != nil {
		id, err := uuid.Parse(*req.InventoryItemID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid inventoryItemId")
			return
		}
		input.InventoryItemID = &id
	}

	destruction, err := h.svc.CreateDestruction(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, destructionResponse{
		ID:               destruction.ID,
		PlantID:          destruction.PlantID,
		InventoryItemID:  destruction.InventoryItemID,
		Reason:           destruction.Reason,
		WasteWeightGrams: destruction.WasteWeightGrams,
		CreatedAt:        destruction.CreatedAt,
	})
}

// UndoOperation handles POST /operations/undo.
func (h *LifecycleHandler) UndoOperation(w http.ResponseWriter, r *http.Request) {
	var req undoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := lifecycle.UndoOperationInput{Reason: req.Reason}
	if req.AuditLogID != "" {
		id, err := uuid.Parse(req.AuditLogID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid auditLogId")
			return
		}
		input.AuditLogID = id
	}

	record, err := h.svc.UndoOperation(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuditRecordResponse(record))
}

func toPlantResponse(p domain.Plant) plantResponse {
	return plantResponse{
		ID:                p.ID,
		LocationID:        p.LocationID,
		Strain:            p.Strain,
		RoomID:            p.RoomID,
		Phase:             string(p.Phase),
		Status:            string(p.Status),
		IsMother:          p.IsMother,
		Notes:             p.Notes,
		SourceInventoryID: p.SourceInventoryID,
		CloneCount:        p.CloneCount,
		SeedCount:         p.SeedCount,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toInventoryItemResponse(item domain.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:                item.ID,
		LocationID:        item.LocationID,
		InventoryTypeID:   item.InventoryTypeID,
		RoomID:            item.RoomID,
		Strain:            item.Strain,
		BatchNumber:       item.BatchNumber,
		Barcode:           item.Barcode,
		WeightGrams:       item.WeightGrams,
		UsableWeightGrams: item.UsableWeightGrams,
		Quantity:          item.Quantity,
		Status:            string(item.Status),
		CreatedAt:         item.CreatedAt,
	}
}

func toHarvestResponse(h domain.Harvest) harvestResponse {
	return harvestResponse{
		ID:                    h.ID,
		PlantID:               h.PlantID,
		BatchID:               h.BatchID,
		WetFlowerWeightGrams:  h.WetFlowerWeightGrams,
		WetOtherMaterialGrams: h.WetOtherMaterialGrams,
		WetWasteWeightGrams:   h.WetWasteWeightGrams,
		CreatedAt:             h.CreatedAt,
	}
}

func toCureResponse(result lifecycle.CureResult) cureResponse {
	items := make([]inventoryItemResponse, 0, len(result.InventoryItems))
	for _, item := range result.InventoryItems {
		items = append(items, toInventoryItemResponse(item))
	}

	resp := cureResponse{
		ID:                    result.Cure.ID,
		HarvestID:             result.Cure.HarvestID,
		PlantID:               result.Cure.PlantID,
		DryFlowerWeightGrams:  result.Cure.DryFlowerWeightGrams,
		DryOtherMaterialGrams: result.Cure.DryOtherMaterialGrams,
		DryWasteWeightGrams:   result.Cure.DryWasteWeightGrams,
		CreatedAt:             result.Cure.CreatedAt,
		InventoryItems:        items,
	}
	if result.WasteDestruction != nil {
		resp.WasteDestructionID = &result.WasteDestruction.ID
	}
	return resp
}

func toAuditRecordResponse(rec domain.AuditRecord) auditRecordResponse {
	return auditRecordResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Module:     string(rec.Module),
		EntityType: string(rec.EntityType),
		EntityID:   rec.EntityID,
		Action:     string(rec.Action),
		Details:    rec.Details,
		CreatedAt:  rec.CreatedAt,
	}
}

func toAuditRecordResponses(records []domain.AuditRecord) []auditRecordResponse {
	out := make([]auditRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toAuditRecordResponse(rec))
	}
	return out
}
