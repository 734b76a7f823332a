package models

import "time"

// DeleteSurveyResponse is the exit-survey answer recorded before an account
// is deleted.
type DeleteSurveyResponse struct {
	UID       string    `json:"uid" bson:"uid"`
	Reason    string    `json:"reason" bson:"reason"`
	Details   string    `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// DeleteSurveyReasons are the options the post-delete survey offers.
var DeleteSurveyReasons = []string{
	"the app is not functional",
	"i don't use it anymore",
	"i didn't have a good experience",
}

type DeleteAccountRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

func (r *DeleteAccountRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Reason == "" {
		errors["reason"] = "Reason is required"
	}

	return errors
}
