// Package shipment maps the shipment form the front end edits onto the
// pricing engine and writes the computed fees back into it.
package shipment

import (
	"errors"
	"strconv"

	"fret-backend/internal/pricing"

	"github.com/shopspring/decimal"
)

const (
	TypeMarchandise  = "marchandise"
	TypeVehicule     = "vehicule"
	TypeHydrocarbure = "hydrocarbure"

	ConteneurSimple   = "simple"
	ConteneurVrac     = "vrac"
	ConteneurGroupage = "groupage"
)

// Largest lists a single form may declare.
const (
	MaxVehicles      = 100
	MaxGroupageItems = 500
)

var (
	ErrTooManyVehicles = errors.New("Le nombre de véhicules ne peut pas dépasser 100")
	ErrWeightTooHigh   = errors.New("Le poids déclaré dépasse le maximum autorisé")
)

type MarchandiseItem struct {
	Poids       Field  `json:"poids"`
	NombreColis Field  `json:"nombreColis"`
	NumeroBl    string `json:"numeroBl"`
}

type VehiculeItem struct {
	Poids         Field  `json:"poids"`
	Caf           Field  `json:"caf"`
	NumeroChassis string `json:"numeroChassis"`
	NumeroDouane  string `json:"numeroDouane"`
	CoutBsc       Field  `json:"coutBsc"`
	Visa          Field  `json:"visa"`
	Total         Field  `json:"total"`
}

// Form is the shipment record as submitted. Only the fields the fees depend
// on, and the fees themselves, are modelled.
type Form struct {
	TypeMarchandiseSelect string `json:"typeMarchandiseSelect" validate:"omitempty,oneof=marchandise vehicule hydrocarbure"`
	Conteneur             string `json:"conteneur" validate:"omitempty,oneof=simple vrac groupage"`
	Poids                 Field  `json:"poids"`
	NombreVehicule        Field  `json:"nombreVehicule"`
	Exoneration           bool   `json:"exoneration"`
	Regularisation        bool   `json:"regularisation"`

	MarchandisesGroupage []MarchandiseItem `json:"marchandisesGroupage,omitempty" validate:"max=500"`
	VehiculesGroupage    []VehiculeItem    `json:"vehiculesGroupage,omitempty" validate:"max=100"`

	// Derived by Priced.
	Be             Field `json:"be"`
	CoutBsc        Field `json:"coutBsc"`
	Visa           Field `json:"visa"`
	TotalBePrice   Field `json:"totalBePrice"`
	TotalQuittance Field `json:"totalQuittance"`
}

func (f Form) kind() pricing.MerchandiseKind {
	switch f.TypeMarchandiseSelect {
	case TypeMarchandise:
		return pricing.KindGeneralCargo
	case TypeVehicule:
		return pricing.KindVehicle
	case TypeHydrocarbure:
		return pricing.KindHydrocarbon
	}
	return ""
}

func (f Form) mode() pricing.ContainerMode {
	switch f.Conteneur {
	case ConteneurSimple:
		return pricing.ModeSingle
	case ConteneurVrac:
		return pricing.ModeBulk
	case ConteneurGroupage:
		return pricing.ModeGrouped
	}
	return ""
}

// Check rejects forms whose counts or weights are beyond what is priced.
func (f Form) Check() error {
	if f.NombreVehicule.Int() > MaxVehicles || len(f.VehiculesGroupage) > MaxVehicles {
		return ErrTooManyVehicles
	}
	weights := []Field{f.Poids}
	for _, item := range f.MarchandisesGroupage {
		weights = append(weights, item.Poids)
	}
	for _, v := range f.VehiculesGroupage {
		weights = append(weights, v.Poids)
	}
	for _, w := range weights {
		if w.Decimal().GreaterThan(pricing.MaxWeightKg) {
			return ErrWeightTooHigh
		}
	}
	return nil
}

// normalized returns a copy whose vehicle list matches nombreVehicule when
// more than one vehicle is declared: missing rows are appended empty and
// extra rows dropped.
func (f Form) normalized() Form {
	out := f
	out.MarchandisesGroupage = append([]MarchandiseItem(nil), f.MarchandisesGroupage...)

	n := min(f.NombreVehicule.Int(), MaxVehicles)
	if f.TypeMarchandiseSelect != TypeVehicule || n <= 1 {
		out.VehiculesGroupage = append([]VehiculeItem(nil), f.VehiculesGroupage...)
		return out
	}

	vehicles := make([]VehiculeItem, n)
	copy(vehicles, f.VehiculesGroupage)
	out.VehiculesGroupage = vehicles
	return out
}

// Declaration resolves the form to a pricing declaration. It never fails:
// unknown kinds, modes and numbers degrade to zero values.
func (f Form) Declaration() pricing.Declaration {
	f = f.normalized()

	d := pricing.Declaration{
		MerchandiseKind:       f.kind(),
		ContainerMode:         f.mode(),
		DeclaredWeightKg:      f.Poids.Decimal(),
		VehicleCount:          min(f.NombreVehicule.Int(), MaxVehicles),
		IsExonerated:          f.Exoneration,
		IsUnderRegularization: f.Regularisation,
	}

	for _, item := range f.MarchandisesGroupage {
		d.GroupedItems = append(d.GroupedItems, pricing.GroupedItem{
			WeightKg:         item.Poids.Decimal(),
			PackageCount:     item.NombreColis.Int(),
			BillOfLoadingRef: item.NumeroBl,
		})
	}
	for _, v := range f.VehiculesGroupage {
		d.GroupedVehicles = append(d.GroupedVehicles, pricing.VehicleItem{
			WeightKg:      v.Poids.Decimal(),
			DeclaredValue: v.Caf.Decimal(),
			ChassisNumber: v.NumeroChassis,
			CustomsRef:    v.NumeroDouane,
		})
	}
	return d
}

func (f Form) input() pricing.Input {
	in := f.Declaration().Input()
	if g, ok := in.Cargo.(pricing.GroupedCargo); ok {
		g.CarriedVisaFee = f.Visa.Decimal()
		in.Cargo = g
	}
	return in
}

// Priced returns a copy of the form with every derived field overwritten
// from the computed fees, along with the fees themselves.
func (f Form) Priced() (Form, pricing.Output) {
	out := pricing.Compute(f.input())
	priced := f.normalized()

	priced.Be = Field(strconv.FormatInt(out.PermitCount, 10))
	priced.CoutBsc = decimalField(out.BscCost)
	priced.Visa = decimalField(out.VisaFee)
	priced.TotalBePrice = decimalField(out.PermitUnitPrice)
	priced.TotalQuittance = decimalField(out.TotalReceiptAmount)

	if priced.TypeMarchandiseSelect == TypeVehicule && priced.NombreVehicule.Int() > 1 {
		for i := range priced.VehiculesGroupage {
			charge := pricing.VehicleCharge{BscCost: decimal.Zero, VisaFee: decimal.Zero, Total: decimal.Zero}
			if i < len(out.Vehicles) {
				charge = out.Vehicles[i]
			}
			priced.VehiculesGroupage[i].CoutBsc = decimalField(charge.BscCost)
			priced.VehiculesGroupage[i].Visa = decimalField(charge.VisaFee)
			priced.VehiculesGroupage[i].Total = decimalField(charge.Total)
		}
	}

	return priced, out
}
