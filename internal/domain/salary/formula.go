package salary

import "github.com/shopspring/decimal"

var (
	hraRate = decimal.RequireFromString("0.40")
	daRate  = decimal.RequireFromString("0.20")
	pfRate  = decimal.RequireFromString("0.12")
)

const moneyPlaces = 2

// Compute resolves every salary component for the given basic salary and
// configured fields. HRA, DA and PF default to 40%, 20% and 12% of basic;
// every other unset component is zero. Net salary is not clamped and may be
// negative.
func Compute(basic decimal.Decimal, fields StructureFields) Breakdown {
	basic = basic.Round(moneyPlaces)

	b := Breakdown{
		BasicSalary:      basic,
		HRA:              orDefault(fields.HRA, basic.Mul(hraRate)),
		DA:               orDefault(fields.DA, basic.Mul(daRate)),
		TA:               orZero(fields.TA),
		MedicalAllowance: orZero(fields.MedicalAllowance),
		SpecialAllowance: orZero(fields.SpecialAllowance),
		Bonus:            orZero(fields.Bonus),
		OtherAllowances:  orZero(fields.OtherAllowances),
		ProvidentFund:    orDefault(fields.ProvidentFund, basic.Mul(pfRate)),
		ProfessionalTax:  orZero(fields.ProfessionalTax),
		IncomeTax:        orZero(fields.IncomeTax),
		OtherDeductions:  orZero(fields.OtherDeductions),
	}

	b.TotalEarnings = decimal.Sum(b.BasicSalary, b.HRA, b.DA, b.TA, b.MedicalAllowance,
		b.SpecialAllowance, b.Bonus, b.OtherAllowances)
	b.TotalDeductions = decimal.Sum(b.ProvidentFund, b.ProfessionalTax, b.IncomeTax, b.OtherDeductions)
	b.NetSalary = b.TotalEarnings.Sub(b.TotalDeductions)

	return b
}

// ComputeFor applies Compute to an optional structure. A missing structure
// yields an all-zero breakdown.
func ComputeFor(s *Structure) Breakdown {
	if s == nil {
		return Compute(decimal.Zero, StructureFields{})
	}
	return Compute(s.BasicSalary, s.StructureFields)
}

func orDefault(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback.Round(moneyPlaces)
	}
	return v.Round(moneyPlaces)
}

func orZero(v *decimal.Decimal) decimal.Decimal {
	return orDefault(v, decimal.Zero)
}
