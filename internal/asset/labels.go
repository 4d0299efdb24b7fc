package asset

// StatusDisplay is how a status is presented in the list.
type StatusDisplay struct {
	Label    string
	Severity Severity
}

// CategoryLabel returns the display label of c. ok is false for values
// outside the enumeration; callers must not invent a label in that case.
func CategoryLabel(c Category) (label string, ok bool) {
	switch c {
	case CategoryComputer:
		return "Computador", true
	case CategoryNotebook:
		return "Notebook", true
	case CategoryMonitor:
		return "Monitor", true
	case CategoryNetwork:
		return "Rede", true
	case CategoryFurniture:
		return "Mobiliário", true
	case CategoryPeripheral:
		return "Periférico", true
	case CategoryOther:
		return "Outro", true
	}
	return "", false
}

// StatusLabel returns the display label and severity of s.
func StatusLabel(s Status) (StatusDisplay, bool) {
	switch s {
	case StatusAvailable:
		return StatusDisplay{Label: "Disponível", Severity: SeverityPositive}, true
	case StatusInUse:
		return StatusDisplay{Label: "Em uso", Severity: SeverityInformational}, true
	case StatusMaintenance:
		return StatusDisplay{Label: "Em manutenção", Severity: SeverityCautionary}, true
	case StatusDisposed:
		return StatusDisplay{Label: "Descartado", Severity: SeverityNegative}, true
	}
	return StatusDisplay{}, false
}

// ParseCategory accepts either an enumeration key or its display label,
// case-insensitively.
func ParseCategory(v string) (Category, bool) {
	for _, c := range Categories() {
		label, _ := CategoryLabel(c)
		if equalFold(v, string(c)) || equalFold(v, label) {
			return c, true
		}
	}
	return "", false
}

// ParseStatus accepts either an enumeration key or its display label,
// case-insensitively.
func ParseStatus(v string) (Status, bool) {
	for _, s := range Statuses() {
		d, _ := StatusLabel(s)
		if equalFold(v, string(s)) || equalFold(v, d.Label) {
			return s, true
		}
	}
	return "", false
}
