package planutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlanJSON(t *testing.T, mutate func(m map[string]any)) []byte {
	t.Helper()

	plan := map[string]any{
		"horizonStartDate": "2026-03-02",
		"horizonEndDate":   "2026-03-08",
		"days": []any{
			map[string]any{
				"date": "2026-03-02",
				"posts": []any{
					map[string]any{
						"source":             "scheduled",
						"platform":           "instagram",
						"format":             "post",
						"suggestedTimeLocal": "10:30",
						"caption":            "Monday glow up",
						"hashtags":           []any{"#salon"},
						"mediaInstructions":  "Photo of the front desk",
						"approvalRequired":   false,
						"approvalReason":     "",
					},
				},
			},
		},
	}

	if mutate != nil {
		mutate(plan)
	}

	data, err := json.Marshal(plan)
	require.NoError(t, err)
	return data
}

func firstPost(m map[string]any) map[string]any {
	day := m["days"].([]any)[0].(map[string]any)
	return day["posts"].([]any)[0].(map[string]any)
}

func TestValidatePlan_Valid(t *testing.T) {
	plan, err := ValidatePlan(validPlanJSON(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", plan.HorizonStartDate)
	require.Len(t, plan.Days, 1)
	require.Len(t, plan.Days[0].Posts, 1)
	assert.Equal(t, "Monday glow up", plan.Days[0].Posts[0].Caption)
}

func TestValidatePlan_NotJSON(t *testing.T) {
	_, err := ValidatePlan([]byte("here is your plan!"))
	assert.Error(t, err)
}

func TestValidatePlan_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{"no horizonStartDate", func(m map[string]any) { delete(m, "horizonStartDate") }},
		{"no days", func(m map[string]any) { delete(m, "days") }},
		{"no date on day", func(m map[string]any) { delete(m["days"].([]any)[0].(map[string]any), "date") }},
		{"no caption", func(m map[string]any) { delete(firstPost(m), "caption") }},
		{"no hashtags", func(m map[string]any) { delete(firstPost(m), "hashtags") }},
		{"no approvalRequired", func(m map[string]any) { delete(firstPost(m), "approvalRequired") }},
		{"no approvalReason", func(m map[string]any) { delete(firstPost(m), "approvalReason") }},
		{"no mediaInstructions", func(m map[string]any) { delete(firstPost(m), "mediaInstructions") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidatePlan(validPlanJSON(t, tc.mutate))
			assert.Error(t, err)
		})
	}
}

func TestValidatePlan_BadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{"bad start date", func(m map[string]any) { m["horizonStartDate"] = "March 2nd" }},
		{"bad day date", func(m map[string]any) { m["days"].([]any)[0].(map[string]any)["date"] = "02-03-2026" }},
		{"unpadded time", func(m map[string]any) { firstPost(m)["suggestedTimeLocal"] = "9:30" }},
		{"hour out of range", func(m map[string]any) { firstPost(m)["suggestedTimeLocal"] = "24:00" }},
		{"minute out of range", func(m map[string]any) { firstPost(m)["suggestedTimeLocal"] = "10:61" }},
		{"unknown platform", func(m map[string]any) { firstPost(m)["platform"] = "tiktok" }},
		{"unknown format", func(m map[string]any) { firstPost(m)["format"] = "carousel" }},
		{"unknown source", func(m map[string]any) { firstPost(m)["source"] = "evergreen" }},
		{"approvalRequired not boolean", func(m map[string]any) { firstPost(m)["approvalRequired"] = "yes" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidatePlan(validPlanJSON(t, tc.mutate))
			assert.Error(t, err)
		})
	}
}

func TestValidatePlan_OneBadPostRejectsWholePayload(t *testing.T) {
	data := validPlanJSON(t, func(m map[string]any) {
		good := firstPost(m)
		bad := map[string]any{}
		for k, v := range good {
			bad[k] = v
		}
		bad["platform"] = "myspace"

		m["days"] = append(m["days"].([]any), map[string]any{
			"date":  "2026-03-03",
			"posts": []any{bad},
		})
	})

	_, err := ValidatePlan(data)
	assert.Error(t, err)
}

func TestValidatePlan_EmptyDaysAllowed(t *testing.T) {
	plan, err := ValidatePlan(validPlanJSON(t, func(m map[string]any) {
		m["days"] = []any{}
	}))
	require.NoError(t, err)
	assert.Empty(t, plan.Days)
}
