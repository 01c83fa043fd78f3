package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kg(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertAmount(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "%s: want %d, got %s", field, want, got)
}

func assertAllZero(t *testing.T, out Output) {
	t.Helper()
	assert.Equal(t, int64(0), out.PermitCount)
	assertAmount(t, 0, out.BscCost, "bscCost")
	assertAmount(t, 0, out.VisaFee, "visaFee")
	assertAmount(t, 0, out.PermitUnitPrice, "permitUnitPrice")
	assertAmount(t, 0, out.TotalReceiptAmount, "totalReceiptAmount")
}

func TestCompute_ExemptionZeroesEverything(t *testing.T) {
	cargos := []Cargo{
		SingleContainer{WeightKg: kg(12000)},
		BulkCargo{WeightKg: kg(65000)},
		GroupedCargo{Items: []GroupedItem{{WeightKg: kg(100)}, {WeightKg: kg(200)}}, CarriedVisaFee: kg(15000)},
		Vehicle{WeightKg: kg(4000)},
		VehicleGroup{Vehicles: []VehicleItem{{WeightKg: kg(3000)}, {WeightKg: kg(9000)}}},
		Hydrocarbon{WeightKg: kg(1000)},
	}

	for _, c := range cargos {
		for _, flags := range [][2]bool{{true, false}, {false, true}, {true, true}} {
			out := Compute(Input{Cargo: c, Exonerated: flags[0], UnderRegularization: flags[1]})
			assertAllZero(t, out)
			assert.Empty(t, out.Vehicles)
			assert.False(t, out.Unpriced)
		}
	}
}

func TestCompute_BulkCargo(t *testing.T) {
	tests := []struct {
		name        string
		weight      decimal.Decimal
		permits     int64
		bsc         int64
		permitPrice int64
		total       int64
	}{
		{name: "45t issues one permit", weight: kg(45000), permits: 1, bsc: 135000, permitPrice: 10000, total: 145000},
		{name: "65t issues two permits", weight: kg(65000), permits: 2, bsc: 195000, permitPrice: 20000, total: 215000},
		{name: "light load still needs one permit", weight: kg(1000), permits: 1, bsc: 3000, permitPrice: 10000, total: 13000},
		{name: "exactly 30t", weight: kg(30000), permits: 1, bsc: 90000, permitPrice: 10000, total: 100000},
		{name: "zero weight", weight: kg(0), permits: 0, bsc: 0, permitPrice: 0, total: 0},
		{name: "negative weight priced as zero", weight: kg(-5000), permits: 0, bsc: 0, permitPrice: 0, total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Compute(Input{Cargo: BulkCargo{WeightKg: tt.weight}})
			assert.Equal(t, tt.permits, out.PermitCount)
			assertAmount(t, tt.bsc, out.BscCost, "bscCost")
			assertAmount(t, tt.permitPrice, out.PermitUnitPrice, "permitUnitPrice")
			assertAmount(t, 0, out.VisaFee, "visaFee")
			assertAmount(t, tt.total, out.TotalReceiptAmount, "totalReceiptAmount")
		})
	}
}

func TestCompute_BulkCargoFractionalWeightIsExact(t *testing.T) {
	out := Compute(Input{Cargo: BulkCargo{WeightKg: decimal.RequireFromString("1234.5")}})
	assert.Equal(t, "3703.5", out.BscCost.String())
	assert.Equal(t, int64(1), out.PermitCount)
}

func TestCompute_SingleContainerIsFlat(t *testing.T) {
	for _, w := range []int64{0, 1, 25000, 90000} {
		out := Compute(Input{Cargo: SingleContainer{WeightKg: kg(w)}})
		assert.Equal(t, int64(0), out.PermitCount)
		assertAmount(t, 50000, out.BscCost, "bscCost")
		assertAmount(t, 0, out.VisaFee, "visaFee")
		assertAmount(t, 0, out.PermitUnitPrice, "permitUnitPrice")
		assertAmount(t, 50000, out.TotalReceiptAmount, "totalReceiptAmount")
	}
}

func TestCompute_GroupedCargo(t *testing.T) {
	items := []GroupedItem{
		{WeightKg: kg(500), PackageCount: 3, BillOfLoadingRef: "BL-1"},
		{WeightKg: kg(800), PackageCount: 1, BillOfLoadingRef: "BL-2"},
		{WeightKg: kg(50), PackageCount: 9, BillOfLoadingRef: "BL-3"},
	}

	out := Compute(Input{Cargo: GroupedCargo{Items: items}})
	assertAmount(t, 150000, out.BscCost, "bscCost")
	assert.Equal(t, int64(0), out.PermitCount)
	assertAmount(t, 0, out.PermitUnitPrice, "permitUnitPrice")
	assertAmount(t, 0, out.VisaFee, "visaFee")
	assertAmount(t, 150000, out.TotalReceiptAmount, "totalReceiptAmount")

	t.Run("carried visa is added to the total", func(t *testing.T) {
		out := Compute(Input{Cargo: GroupedCargo{Items: items, CarriedVisaFee: kg(15000)}})
		assertAmount(t, 15000, out.VisaFee, "visaFee")
		assertAmount(t, 165000, out.TotalReceiptAmount, "totalReceiptAmount")
	})

	t.Run("empty list yields zero", func(t *testing.T) {
		assertAllZero(t, Compute(Input{Cargo: GroupedCargo{}}))
	})
}

func TestCompute_SingleVehicleVisa(t *testing.T) {
	tests := []struct {
		weight int64
		visa   int64
	}{
		{weight: 4000, visa: 15000},
		{weight: 4999, visa: 15000},
		{weight: 5000, visa: 20000},
		{weight: 6000, visa: 20000},
		{weight: -10, visa: 15000},
	}

	for _, tt := range tests {
		out := Compute(Input{Cargo: Vehicle{WeightKg: kg(tt.weight)}})
		assertAmount(t, 50000, out.BscCost, "bscCost")
		assertAmount(t, tt.visa, out.VisaFee, "visaFee")
		assert.Equal(t, int64(0), out.PermitCount)
		assertAmount(t, 0, out.PermitUnitPrice, "permitUnitPrice")
		assertAmount(t, 50000+tt.visa, out.TotalReceiptAmount, "totalReceiptAmount")
	}
}

func TestCompute_VehicleGroup(t *testing.T) {
	out := Compute(Input{Cargo: VehicleGroup{Vehicles: []VehicleItem{
		{WeightKg: kg(3000), ChassisNumber: "VF1A"},
		{WeightKg: kg(6000), ChassisNumber: "VF1B"},
		{WeightKg: kg(4999), ChassisNumber: "VF1C"},
	}}})

	assertAmount(t, 150000, out.BscCost, "bscCost")
	assertAmount(t, 50000, out.VisaFee, "visaFee")
	assertAmount(t, 200000, out.TotalReceiptAmount, "totalReceiptAmount")
	assert.Equal(t, int64(0), out.PermitCount)

	require.Len(t, out.Vehicles, 3)
	assertAmount(t, 15000, out.Vehicles[0].VisaFee, "vehicle 0 visa")
	assertAmount(t, 20000, out.Vehicles[1].VisaFee, "vehicle 1 visa")
	assertAmount(t, 65000, out.Vehicles[0].Total, "vehicle 0 total")
	assertAmount(t, 70000, out.Vehicles[1].Total, "vehicle 1 total")

	t.Run("empty list yields zero", func(t *testing.T) {
		out := Compute(Input{Cargo: VehicleGroup{}})
		assertAllZero(t, out)
		assert.Empty(t, out.Vehicles)
	})
}

func TestCompute_HydrocarbonIsUnpriced(t *testing.T) {
	out := Compute(Input{Cargo: Hydrocarbon{WeightKg: kg(80000)}})
	assertAllZero(t, out)
	assert.True(t, out.Unpriced)
}

func TestCompute_NilCargoIsZero(t *testing.T) {
	assertAllZero(t, Compute(Input{}))
}

func TestCompute_IsIdempotent(t *testing.T) {
	in := Input{Cargo: VehicleGroup{Vehicles: []VehicleItem{{WeightKg: kg(3000)}, {WeightKg: kg(7000)}}}}
	first := Compute(in)
	second := Compute(in)
	assert.Equal(t, first, second)

	bulk := Input{Cargo: BulkCargo{WeightKg: kg(65000)}}
	assert.Equal(t, Compute(bulk), Compute(bulk))
}

func TestDeclaration_Input(t *testing.T) {
	vehicles := []VehicleItem{{WeightKg: kg(3000)}, {WeightKg: kg(6000)}}

	tests := []struct {
		name string
		decl Declaration
		want Cargo
	}{
		{
			name: "single container",
			decl: Declaration{MerchandiseKind: KindGeneralCargo, ContainerMode: ModeSingle, DeclaredWeightKg: kg(10)},
			want: SingleContainer{WeightKg: kg(10)},
		},
		{
			name: "bulk",
			decl: Declaration{MerchandiseKind: KindGeneralCargo, ContainerMode: ModeBulk, DeclaredWeightKg: kg(45000)},
			want: BulkCargo{WeightKg: kg(45000)},
		},
		{
			name: "one vehicle ignores the grouped list",
			decl: Declaration{MerchandiseKind: KindVehicle, VehicleCount: 1, DeclaredWeightKg: kg(4000), GroupedVehicles: vehicles},
			want: Vehicle{WeightKg: kg(4000)},
		},
		{
			name: "several vehicles",
			decl: Declaration{MerchandiseKind: KindVehicle, VehicleCount: 2, GroupedVehicles: vehicles},
			want: VehicleGroup{Vehicles: vehicles},
		},
		{
			name: "hydrocarbon",
			decl: Declaration{MerchandiseKind: KindHydrocarbon, DeclaredWeightKg: kg(1)},
			want: Hydrocarbon{WeightKg: kg(1)},
		},
		{
			name: "general cargo without mode",
			decl: Declaration{MerchandiseKind: KindGeneralCargo},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.decl.Input().Cargo)
		})
	}
}

func TestDeclaration_ExemptionToggleRecomputes(t *testing.T) {
	decl := Declaration{MerchandiseKind: KindGeneralCargo, ContainerMode: ModeBulk, DeclaredWeightKg: kg(45000), IsExonerated: true}
	assertAllZero(t, Compute(decl.Input()))

	decl.IsExonerated = false
	out := Compute(decl.Input())
	assertAmount(t, 145000, out.TotalReceiptAmount, "totalReceiptAmount")
	assert.Equal(t, int64(1), out.PermitCount)
}

func TestCompute_BulkCargoWeightCeiling(t *testing.T) {
	out := Compute(Input{Cargo: BulkCargo{WeightKg: MaxWeightKg}})
	assert.Equal(t, int64(33333), out.PermitCount)
	assertAmount(t, 3000000000, out.BscCost, "bscCost")
	assertAmount(t, 333330000, out.PermitUnitPrice, "permitUnitPrice")
	assertAmount(t, 3333330000, out.TotalReceiptAmount, "totalReceiptAmount")

	for _, raw := range []string{"1000000000.5", "1e25", "1e30"} {
		t.Run(raw, func(t *testing.T) {
			assertAllZero(t, Compute(Input{Cargo: BulkCargo{WeightKg: decimal.RequireFromString(raw)}}))
		})
	}
}
