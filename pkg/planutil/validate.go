package planutil

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/flowpilotuk-hash/flowpilot/internal/models"
	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
)

var timeLocalRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Candidate mirrors of the plan structs with pointer fields, so a missing
// required field is distinguishable from a zero value.
type planCandidate struct {
	HorizonStartDate *string         `json:"horizonStartDate"`
	HorizonEndDate   *string         `json:"horizonEndDate"`
	Days             *[]dayCandidate `json:"days"`
}

type dayCandidate struct {
	Date  *string          `json:"date"`
	Posts *[]postCandidate `json:"posts"`
}

type postCandidate struct {
	Source             *string   `json:"source"`
	Platform           *string   `json:"platform"`
	Format             *string   `json:"format"`
	SuggestedTimeLocal *string   `json:"suggestedTimeLocal"`
	Caption            *string   `json:"caption"`
	Hashtags           *[]string `json:"hashtags"`
	MediaInstructions  *string   `json:"mediaInstructions"`
	ApprovalRequired   *bool     `json:"approvalRequired"`
	ApprovalReason     *string   `json:"approvalReason"`
}

// ValidatePlan structurally checks a candidate plan payload and returns the
// typed plan on success. There is no partial acceptance: any failing field
// invalidates the whole payload and the caller must not attempt repair.
func ValidatePlan(data []byte) (*models.Plan, error) {
	var c planCandidate
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, apperror.ValidationError("plan payload is not a well-formed plan object: " + err.Error())
	}

	if err := checkDate("horizonStartDate", c.HorizonStartDate); err != nil {
		return nil, err
	}
	if err := checkDate("horizonEndDate", c.HorizonEndDate); err != nil {
		return nil, err
	}
	if c.Days == nil {
		return nil, apperror.ValidationError("plan field days is missing or not a sequence")
	}

	plan := &models.Plan{
		HorizonStartDate: *c.HorizonStartDate,
		HorizonEndDate:   *c.HorizonEndDate,
		Days:             make([]models.PlanDay, 0, len(*c.Days)),
	}

	for di, dc := range *c.Days {
		if err := checkDate(fmt.Sprintf("days[%d].date", di), dc.Date); err != nil {
			return nil, err
		}
		if dc.Posts == nil {
			return nil, apperror.ValidationError(fmt.Sprintf("days[%d].posts is missing or not a sequence", di))
		}
		day := models.PlanDay{Date: *dc.Date, Posts: make([]models.PlanPost, 0, len(*dc.Posts))}
		for pi, pc := range *dc.Posts {
			post, err := validatePost(di, pi, pc)
			if err != nil {
				return nil, err
			}
			day.Posts = append(day.Posts, *post)
		}
		plan.Days = append(plan.Days, day)
	}

	return plan, nil
}

func validatePost(di, pi int, pc postCandidate) (*models.PlanPost, error) {
	at := func(field string) string {
		return fmt.Sprintf("days[%d].posts[%d].%s", di, pi, field)
	}

	if err := checkEnum(at("source"), pc.Source, models.PostSourcePriority, models.PostSourceScheduled); err != nil {
		return nil, err
	}
	if err := checkEnum(at("platform"), pc.Platform, models.PlatformInstagram, models.PlatformFacebook); err != nil {
		return nil, err
	}
	if err := checkEnum(at("format"), pc.Format, models.FormatPost, models.FormatReel, models.FormatStory); err != nil {
		return nil, err
	}
	if pc.SuggestedTimeLocal == nil || !timeLocalRe.MatchString(*pc.SuggestedTimeLocal) {
		return nil, apperror.ValidationError(at("suggestedTimeLocal") + " must be a 24-hour HH:MM time")
	}
	if pc.Caption == nil {
		return nil, apperror.ValidationError(at("caption") + " must be a string")
	}
	if pc.Hashtags == nil {
		return nil, apperror.ValidationError(at("hashtags") + " must be a sequence of strings")
	}
	if pc.MediaInstructions == nil {
		return nil, apperror.ValidationError(at("mediaInstructions") + " must be a string")
	}
	if pc.ApprovalRequired == nil {
		return nil, apperror.ValidationError(at("approvalRequired") + " must be a boolean")
	}
	if pc.ApprovalReason == nil {
		return nil, apperror.ValidationError(at("approvalReason") + " must be a string")
	}

	return &models.PlanPost{
		Source:             *pc.Source,
		Platform:           *pc.Platform,
		Format:             *pc.Format,
		SuggestedTimeLocal: *pc.SuggestedTimeLocal,
		Caption:            *pc.Caption,
		Hashtags:           *pc.Hashtags,
		MediaInstructions:  *pc.MediaInstructions,
		ApprovalRequired:   *pc.ApprovalRequired,
		ApprovalReason:     *pc.ApprovalReason,
	}, nil
}

func checkDate(field string, v *string) error {
	if v == nil {
		return apperror.ValidationError("plan field " + field + " is missing")
	}
	if _, err := time.Parse("2006-01-02", *v); err != nil {
		return apperror.ValidationError("plan field " + field + " is not a calendar date: " + *v)
	}
	return nil
}

func checkEnum(field string, v *string, allowed ...string) error {
	if v != nil {
		for _, a := range allowed {
			if *v == a {
				return nil
			}
		}
	}
	return apperror.ValidationError(field + " must be one of the allowed values")
}
