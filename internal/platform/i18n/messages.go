package i18n

// Message keys used by the form-entry UI.
const (
	KeyConditionRequired     = "htmlformentry.conditionui.condition.required"
	KeyEndDateBeforeOnset    = "htmlformentry.conditionui.endDate.before.onsetDate.error"
	KeyConditionLabel        = "htmlformentry.conditionui.condition.label"
	KeyStatusLabel           = "htmlformentry.conditionui.status.label"
	KeyStatusActive          = "htmlformentry.conditionui.status.active"
	KeyStatusInactive        = "htmlformentry.conditionui.status.inactive"
	KeyStatusInvalid         = "htmlformentry.conditionui.status.invalid"
	KeyOnsetDateLabel        = "htmlformentry.conditionui.onsetDate.label"
	KeyEndDateLabel          = "htmlformentry.conditionui.endDate.label"
	KeyAdditionalDetailLabel = "htmlformentry.conditionui.additionalDetail.label"
	KeyInvalidDate           = "htmlformentry.error.date"
	KeySearchPlaceholder     = "htmlformentry.conditionui.search.placeholder"
)

var bundled = map[string]map[string]string{
	"en": {
		KeyConditionRequired:     "A condition is required",
		KeyEndDateBeforeOnset:    "The end date cannot be earlier than the onset date.",
		KeyConditionLabel:        "Condition",
		KeyStatusLabel:           "Status",
		KeyStatusActive:          "Active",
		KeyStatusInactive:        "Inactive",
		KeyStatusInvalid:         "Unknown clinical status",
		KeyOnsetDateLabel:        "Onset date",
		KeyEndDateLabel:          "End date",
		KeyAdditionalDetailLabel: "Additional detail",
		KeyInvalidDate:           "Invalid date",
		KeySearchPlaceholder:     "Search for a condition",
	},
	"fr": {
		KeyConditionRequired:     "Une condition est requise",
		KeyEndDateBeforeOnset:    "La date de fin ne peut pas précéder la date de début.",
		KeyConditionLabel:        "Condition",
		KeyStatusLabel:           "Statut",
		KeyStatusActive:          "Active",
		KeyStatusInactive:        "Inactive",
		KeyStatusInvalid:         "Statut clinique inconnu",
		KeyOnsetDateLabel:        "Date de début",
		KeyEndDateLabel:          "Date de fin",
		KeyAdditionalDetailLabel: "Détail supplémentaire",
		KeyInvalidDate:           "Date invalide",
		KeySearchPlaceholder:     "Rechercher une condition",
	},
	"es": {
		KeyConditionRequired:     "Se requiere una condición",
		KeyEndDateBeforeOnset:    "La fecha de fin no puede ser anterior a la fecha de inicio.",
		KeyConditionLabel:        "Condición",
		KeyStatusLabel:           "Estado",
		KeyStatusActive:          "Activa",
		KeyStatusInactive:        "Inactiva",
		KeyStatusInvalid:         "Estado clínico desconocido",
		KeyOnsetDateLabel:        "Fecha de inicio",
		KeyEndDateLabel:          "Fecha de fin",
		KeyAdditionalDetailLabel: "Detalle adicional",
		KeyInvalidDate:           "Fecha inválida",
		KeySearchPlaceholder:     "Buscar una condición",
	},
}
