package apptype

import (
	common_models "go-hr/internal/common/models"
)

// Reserved field keys managed by capability flags. Everything else on a type
// is a custom field and survives normalization untouched.
const (
	FieldKeyReason            = "reason"
	FieldKeyStartDate         = "start_date"
	FieldKeyEndDate           = "end_date"
	FieldKeyStartTime         = "start_time"
	FieldKeyEndTime           = "end_time"
	FieldKeyAdditionalComment = "additional_comment"
)

var fieldTemplates = map[string]FieldDefinition{
	FieldKeyReason: {
		Key:      FieldKeyReason,
		Label:    common_models.LocalizedText{Ka: "მიზანი", En: "Purpose"},
		Type:     FieldTypeTextarea,
		Required: true,
		Placeholder: &common_models.LocalizedText{
			Ka: "მოკლედ აღწერეთ განაცხადის მიზეზი…",
			En: "Describe why you are submitting this request…",
		},
	},
	FieldKeyStartDate: {
		Key:      FieldKeyStartDate,
		Label:    common_models.LocalizedText{Ka: "დაწყების თარიღი", En: "Start date"},
		Type:     FieldTypeDate,
		Required: true,
	},
	FieldKeyEndDate: {
		Key:      FieldKeyEndDate,
		Label:    common_models.LocalizedText{Ka: "დასრულების თარიღი", En: "End date"},
		Type:     FieldTypeDate,
		Required: true,
	},
	FieldKeyStartTime: {
		Key:      FieldKeyStartTime,
		Label:    common_models.LocalizedText{Ka: "დაწყების დრო", En: "Start time"},
		Type:     FieldTypeTime,
		Required: false,
	},
	FieldKeyEndTime: {
		Key:      FieldKeyEndTime,
		Label:    common_models.LocalizedText{Ka: "დასრულების დრო", En: "End time"},
		Type:     FieldTypeTime,
		Required: false,
	},
	FieldKeyAdditionalComment: {
		Key:      FieldKeyAdditionalComment,
		Label:    common_models.LocalizedText{Ka: "დამატებითი კომენტარი", En: "Additional comment"},
		Type:     FieldTypeTextarea,
		Required: false,
		Placeholder: &common_models.LocalizedText{
			Ka: "მიუთითეთ დამატებითი ინფორმაცია…",
			En: "Provide any extra context…",
		},
	},
}

var reservedFieldKeys = map[string]struct{}{
	FieldKeyReason:            {},
	FieldKeyStartDate:         {},
	FieldKeyEndDate:           {},
	FieldKeyStartTime:         {},
	FieldKeyEndTime:           {},
	FieldKeyAdditionalComment: {},
}

// IsReservedFieldKey reports whether the key belongs to the synthesized set.
func IsReservedFieldKey(key string) bool {
	_, ok := reservedFieldKeys[key]
	return ok
}

// buildFieldsForCapabilities produces the canonical field list for a type:
// the synthesized standard fields in a fixed order, then any custom fields in
// first-seen order with duplicates by key dropped. Existing entries for a
// reserved key keep their label/placeholder overrides but never their type.
func buildFieldsForCapabilities(existing []FieldDefinition, capabilities Capabilities) []FieldDefinition {
	byKey := make(map[string]FieldDefinition, len(existing))
	for _, field := range existing {
		if _, ok := byKey[field.Key]; !ok {
			byKey[field.Key] = field
		}
	}

	ensureField := func(key string, required bool) FieldDefinition {
		template := fieldTemplates[key]
		field := template
		if current, ok := byKey[key]; ok {
			if current.Label.Ka != "" || current.Label.En != "" {
				field.Label = current.Label
			}
			if current.Placeholder != nil {
				field.Placeholder = current.Placeholder
			}
		}
		field.Key = key
		field.Type = template.Type
		field.Required = required
		return field
	}

	fields := []FieldDefinition{ensureField(FieldKeyReason, true)}

	if capabilities.RequiresDateRange {
		fields = append(fields,
			ensureField(FieldKeyStartDate, capabilities.DateRangeRequired),
			ensureField(FieldKeyEndDate, capabilities.DateRangeRequired),
		)
	}

	if capabilities.RequiresTimeRange {
		fields = append(fields,
			ensureField(FieldKeyStartTime, capabilities.TimeRangeRequired),
			ensureField(FieldKeyEndTime, capabilities.TimeRangeRequired),
		)
	}

	if capabilities.HasCommentField {
		fields = append(fields, ensureField(FieldKeyAdditionalComment, capabilities.CommentRequired))
	}

	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		seen[field.Key] = struct{}{}
	}
	for _, field := range existing {
		if IsReservedFieldKey(field.Key) {
			continue
		}
		if _, ok := seen[field.Key]; ok {
			continue
		}
		fields = append(fields, field)
		seen[field.Key] = struct{}{}
	}

	return fields
}
