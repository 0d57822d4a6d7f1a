package domain

// InventoryCategory classifies an inventory type within the material
// transformation chain.
type InventoryCategory string

const (
	CategorySource        InventoryCategory = "SOURCE"
	CategoryWaste         InventoryCategory = "WASTE"
	CategoryWet           InventoryCategory = "WET"
	CategoryDry           InventoryCategory = "DRY"
	CategoryLot           InventoryCategory = "LOT"
	CategoryExtraction    InventoryCategory = "EXTRACTION"
	CategoryFinishedGoods InventoryCategory = "FINISHED_GOODS"
)

// IsValid reports whether the category is a known value.
func (c InventoryCategory) IsValid() bool {
	switch c {
	case CategorySource, CategoryWaste, CategoryWet, CategoryDry,
		CategoryLot, CategoryExtraction, CategoryFinishedGoods:
		return true
	}
	return false
}

// InventoryStatus is the lifecycle status of an inventory item.
type InventoryStatus string

const (
	InventoryActive    InventoryStatus = "ACTIVE"
	InventoryConsumed  InventoryStatus = "CONSUMED"
	InventoryDestroyed InventoryStatus = "DESTROYED"
)

func (s InventoryStatus) IsValid() bool {
	switch s {
	case InventoryActive, InventoryConsumed, InventoryDestroyed:
		return true
	}
	return false
}

// PlantPhase is the cultivation phase of a plant.
type PlantPhase string

const (
	PhaseSeedling   PlantPhase = "SEEDLING"
	PhaseClone      PlantPhase = "CLONE"
	PhaseVegetative PlantPhase = "VEGETATIVE"
	PhaseFlowering  PlantPhase = "FLOWERING"
	PhaseHarvested  PlantPhase = "HARVESTED"
	PhaseCured      PlantPhase = "CURED"
)

func (p PlantPhase) IsValid() bool {
	switch p {
	case PhaseSeedling, PhaseClone, PhaseVegetative, PhaseFlowering,
		PhaseHarvested, PhaseCured:
		return true
	}
	return false
}

// PlantStatus is the lifecycle status of a plant. A plant starts ACTIVE,
// may become MOTHER, and terminates in DESTROYED or soft deletion.
type PlantStatus string

const (
	PlantActive    PlantStatus = "ACTIVE"
	PlantMother    PlantStatus = "MOTHER"
	PlantHarvested PlantStatus = "HARVESTED"
	PlantDestroyed PlantStatus = "DESTROYED"
)

func (s PlantStatus) IsValid() bool {
	switch s {
	case PlantActive, PlantMother, PlantHarvested, PlantDestroyed:
		return true
	}
	return false
}

// RoomStatus is the status of a cultivation or storage room.
type RoomStatus string

const (
	RoomActive   RoomStatus = "ACTIVE"
	RoomInactive RoomStatus = "INACTIVE"
)

// ConversionType identifies one step of the material transformation pipeline.
type ConversionType string

const (
	ConversionWetToDry                 ConversionType = "WET_TO_DRY"
	ConversionDryToExtraction          ConversionType = "DRY_TO_EXTRACTION"
	ConversionExtractionToFinishedGood ConversionType = "EXTRACTION_TO_FINISHED_GOODS"
)

func (t ConversionType) IsValid() bool {
	switch t {
	case ConversionWetToDry, ConversionDryToExtraction, ConversionExtractionToFinishedGood:
		return true
	}
	return false
}

// SourceCategory returns the required category of the source item.
func (t ConversionType) SourceCategory() InventoryCategory {
	switch t {
	case ConversionWetToDry:
		return CategoryWet
	case ConversionDryToExtraction:
		return CategoryDry
	case ConversionExtractionToFinishedGood:
		return CategoryExtraction
	}
	return ""
}

// OutputCategory returns the required category of the output type.
func (t ConversionType) OutputCategory() InventoryCategory {
	switch t {
	case ConversionWetToDry:
		return CategoryDry
	case ConversionDryToExtraction:
		return CategoryExtraction
	case ConversionExtractionToFinishedGood:
		return CategoryFinishedGoods
	}
	return ""
}

// EntityType identifies the kind of entity an audit record refers to.
type EntityType string

const (
	EntityTypePlant       EntityType = "PLANT"
	EntityTypeInventory   EntityType = "INVENTORY_ITEM"
	EntityTypeHarvest     EntityType = "HARVEST"
	EntityTypeCure        EntityType = "CURE"
	EntityTypeDestruction EntityType = "DESTRUCTION"
	EntityTypeRoomMove    EntityType = "ROOM_MOVE"
)

// Module identifies the subsystem that produced an audit record.
type Module string

const (
	ModuleCultivation Module = "CULTIVATION"
	ModuleConversion  Module = "CONVERSION"
	ModuleInventory   Module = "INVENTORY"
)

// AuditAction tags the operation an audit record describes. One consistent
// tag per operation; details payloads are typed per action.
type AuditAction string

const (
	ActionCreatePlant       AuditAction = "create_plant"
	ActionUpdatePlant       AuditAction = "update_plant"
	ActionDeletePlant       AuditAction = "delete_plant"
	ActionMoveRoom          AuditAction = "move_room"
	ActionConvertToMother   AuditAction = "convert_to_mother"
	ActionGenerateClones    AuditAction = "generate_clones"
	ActionGenerateSeeds     AuditAction = "generate_seeds"
	ActionCreateHarvest     AuditAction = "create_harvest"
	ActionCreateCure        AuditAction = "create_cure"
	ActionCreateDestruction AuditAction = "create_destruction"
	ActionConversion        AuditAction = "conversion"
	ActionUndoOperation     AuditAction = "undo_operation"
)
