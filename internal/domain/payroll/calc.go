package payroll

// NetSalary derives the payable amount from the record's additive and
// subtractive components.
func NetSalary(baseSalary, overtimePay, deductions, tax float64) float64 {
	return baseSalary + overtimePay - deductions - tax
}

// Overlaps reports whether two inclusive pay periods intersect.
func (p Payroll) Overlaps(other Payroll) bool {
	return !p.PayPeriodStart.After(other.PayPeriodEnd) && !p.PayPeriodEnd.Before(other.PayPeriodStart)
}
