// Package pricing computes the customs fees due on a shipment: the BSC
// service cost, the permit ("BE") count and price, the vehicle visa, and the
// receipt total. Compute is pure and never fails; malformed values price as
// zero.
package pricing

import "github.com/shopspring/decimal"

var (
	flatBscCost       = decimal.NewFromInt(50000)
	bulkBscPerTonne   = decimal.NewFromInt(3000)
	kilosPerTonne     = decimal.NewFromInt(1000)
	bulkKilosByPermit = decimal.NewFromInt(30000)
	permitPrice       = decimal.NewFromInt(10000)
	lightVisaFee      = decimal.NewFromInt(15000)
	heavyVisaFee      = decimal.NewFromInt(20000)
	visaWeightLimitKg = decimal.NewFromInt(5000)
)

// MaxWeightKg is the heaviest declarable weight, one million tonnes. Bulk
// cargo above it is malformed and prices as zero.
var MaxWeightKg = decimal.New(1, 9)

// Output is the set of derived fees for one shipment.
type Output struct {
	PermitCount        int64           `json:"permitCount"`
	BscCost            decimal.Decimal `json:"bscCost"`
	VisaFee            decimal.Decimal `json:"visaFee"`
	PermitUnitPrice    decimal.Decimal `json:"permitUnitPrice"`
	TotalReceiptAmount decimal.Decimal `json:"totalReceiptAmount"`

	// Vehicles holds per-vehicle charges for a grouped vehicle shipment.
	Vehicles []VehicleCharge `json:"vehicles,omitempty"`

	// Unpriced marks cargo for which no fee schedule exists (hydrocarbons).
	// All amounts are zero in that case.
	Unpriced bool `json:"unpriced,omitempty"`
}

// VehicleCharge is what one vehicle of a VehicleGroup costs.
type VehicleCharge struct {
	BscCost decimal.Decimal `json:"bscCost"`
	VisaFee decimal.Decimal `json:"visaFee"`
	Total   decimal.Decimal `json:"total"`
}

// Compute prices a shipment. Exemption dominates every other rule.
func Compute(in Input) Output {
	out := zeroOutput()
	if in.Exempt() {
		return out
	}

	switch c := in.Cargo.(type) {
	case SingleContainer:
		out.BscCost = flatBscCost
	case BulkCargo:
		w := nonNegative(c.WeightKg)
		if w.GreaterThan(MaxWeightKg) {
			w = decimal.Zero
		}
		out.PermitCount = bulkPermitCount(w)
		out.BscCost = w.Mul(bulkBscPerTonne).Div(kilosPerTonne)
		out.PermitUnitPrice = permitPrice.Mul(decimal.NewFromInt(out.PermitCount))
	case GroupedCargo:
		out.BscCost = flatBscCost.Mul(decimal.NewFromInt(int64(len(c.Items))))
		out.VisaFee = nonNegative(c.CarriedVisaFee)
	case Vehicle:
		out.BscCost = flatBscCost
		out.VisaFee = visaFor(c.WeightKg)
	case VehicleGroup:
		out.Vehicles = make([]VehicleCharge, 0, len(c.Vehicles))
		for _, v := range c.Vehicles {
			charge := VehicleCharge{BscCost: flatBscCost, VisaFee: visaFor(v.WeightKg)}
			charge.Total = charge.BscCost.Add(charge.VisaFee)
			out.Vehicles = append(out.Vehicles, charge)
			out.BscCost = out.BscCost.Add(charge.BscCost)
			out.VisaFee = out.VisaFee.Add(charge.VisaFee)
		}
	case Hydrocarbon:
		// no fee schedule: every amount stays zero
		out.Unpriced = true
	}

	out.TotalReceiptAmount = out.BscCost.Add(out.PermitUnitPrice).Add(out.VisaFee)
	return out
}

func zeroOutput() Output {
	return Output{
		BscCost:            decimal.Zero,
		VisaFee:            decimal.Zero,
		PermitUnitPrice:    decimal.Zero,
		TotalReceiptAmount: decimal.Zero,
	}
}

// bulkPermitCount issues one permit per full 30t block, at least one for
// any positive weight. w must not exceed MaxWeightKg, which keeps the count
// well inside int64.
func bulkPermitCount(w decimal.Decimal) int64 {
	if !w.IsPositive() {
		return 0
	}
	n := w.Div(bulkKilosByPermit).Floor()
	if n.LessThan(decimal.NewFromInt(1)) {
		return 1
	}
	return n.IntPart()
}

func visaFor(weightKg decimal.Decimal) decimal.Decimal {
	if nonNegative(weightKg).LessThan(visaWeightLimitKg) {
		return lightVisaFee
	}
	return heavyVisaFee
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
