package pricing

import "github.com/shopspring/decimal"

// MerchandiseKind is the declared nature of the goods.
type MerchandiseKind string

const (
	KindGeneralCargo MerchandiseKind = "GENERAL_CARGO"
	KindVehicle      MerchandiseKind = "VEHICLE"
	KindHydrocarbon  MerchandiseKind = "HYDROCARBON"
)

// ContainerMode is how general cargo is shipped.
type ContainerMode string

const (
	ModeSingle  ContainerMode = "SINGLE"
	ModeBulk    ContainerMode = "BULK"
	ModeGrouped ContainerMode = "GROUPED"
)

// Cargo is the priced shape of a shipment. Each variant carries only the
// fields its fee rule reads, so invalid combinations cannot be expressed.
type Cargo interface {
	Kind() MerchandiseKind
	isCargo()
}

// SingleContainer is general cargo shipped in one container.
type SingleContainer struct {
	WeightKg decimal.Decimal
}

// BulkCargo is general cargo shipped loose ("vrac"), priced by weight.
type BulkCargo struct {
	WeightKg decimal.Decimal
}

// GroupedCargo is a consolidated shipment ("groupage") priced per item.
// CarriedVisaFee is a visa amount set outside the grouped rule; it is zero
// for general cargo unless the caller sets it.
type GroupedCargo struct {
	Items          []GroupedItem
	CarriedVisaFee decimal.Decimal
}

// GroupedItem is one consignment of a grouped shipment.
type GroupedItem struct {
	WeightKg         decimal.Decimal `json:"weightKg"`
	PackageCount     int             `json:"packageCount"`
	BillOfLoadingRef string          `json:"billOfLoadingRef"`
}

// Vehicle is a single vehicle shipment.
type Vehicle struct {
	WeightKg decimal.Decimal
}

// VehicleGroup is a shipment of several vehicles, each priced on its own.
type VehicleGroup struct {
	Vehicles []VehicleItem
}

// VehicleItem is one vehicle of a VehicleGroup.
type VehicleItem struct {
	WeightKg      decimal.Decimal `json:"weightKg"`
	DeclaredValue decimal.Decimal `json:"declaredValue"`
	ChassisNumber string          `json:"chassisNumber"`
	CustomsRef    string          `json:"customsRef"`
}

// Hydrocarbon has no fee schedule. It prices as zero and is flagged
// Unpriced.
type Hydrocarbon struct {
	WeightKg decimal.Decimal
}

func (SingleContainer) Kind() MerchandiseKind { return KindGeneralCargo }
func (BulkCargo) Kind() MerchandiseKind       { return KindGeneralCargo }
func (GroupedCargo) Kind() MerchandiseKind    { return KindGeneralCargo }
func (Vehicle) Kind() MerchandiseKind         { return KindVehicle }
func (VehicleGroup) Kind() MerchandiseKind    { return KindVehicle }
func (Hydrocarbon) Kind() MerchandiseKind     { return KindHydrocarbon }

func (SingleContainer) isCargo() {}
func (BulkCargo) isCargo()       {}
func (GroupedCargo) isCargo()    {}
func (Vehicle) isCargo()         {}
func (VehicleGroup) isCargo()    {}
func (Hydrocarbon) isCargo()     {}

// Input is what Compute prices.
type Input struct {
	Cargo               Cargo
	Exonerated          bool
	UnderRegularization bool
}

// Exempt reports whether every fee is waived.
func (in Input) Exempt() bool {
	return in.Exonerated || in.UnderRegularization
}

// Declaration is the flat shipment declaration as it is captured. Input
// resolves it to the variant the fee rules apply to.
type Declaration struct {
	MerchandiseKind       MerchandiseKind `json:"merchandiseKind"`
	ContainerMode         ContainerMode   `json:"containerMode"`
	DeclaredWeightKg      decimal.Decimal `json:"declaredWeightKg"`
	VehicleCount          int             `json:"vehicleCount"`
	GroupedItems          []GroupedItem   `json:"groupedItems,omitempty"`
	GroupedVehicles       []VehicleItem   `json:"groupedVehicles,omitempty"`
	IsExonerated          bool            `json:"isExonerated"`
	IsUnderRegularization bool            `json:"isUnderRegularization"`
}

// Input picks the cargo variant from the kind, the container mode and the
// vehicle count. A general cargo declaration without a mode has no cargo
// and prices as zero.
func (d Declaration) Input() Input {
	in := Input{
		Exonerated:          d.IsExonerated,
		UnderRegularization: d.IsUnderRegularization,
	}

	switch d.MerchandiseKind {
	case KindVehicle:
		if d.VehicleCount > 1 {
			in.Cargo = VehicleGroup{Vehicles: d.GroupedVehicles}
		} else {
			in.Cargo = Vehicle{WeightKg: d.DeclaredWeightKg}
		}
	case KindHydrocarbon:
		in.Cargo = Hydrocarbon{WeightKg: d.DeclaredWeightKg}
	case KindGeneralCargo:
		switch d.ContainerMode {
		case ModeSingle:
			in.Cargo = SingleContainer{WeightKg: d.DeclaredWeightKg}
		case ModeBulk:
			in.Cargo = BulkCargo{WeightKg: d.DeclaredWeightKg}
		case ModeGrouped:
			in.Cargo = GroupedCargo{Items: d.GroupedItems}
		}
	}

	return in
}
