package api

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/okian/learnmap/internal/domain/model"
)

// topicRequest mirrors the JSON body of POST and PUT /topics.
type topicRequest struct {
	Name          model.Optional[string] `json:"name"`
	Description   model.Optional[string] `json:"description"`
	ParentTopicID model.Optional[string] `json:"parentTopicID"`
}

func (r topicRequest) input() model.TopicInput {
	return model.TopicInput{
		Name:          r.Name.Or(""),
		Description:   r.Description.Value,
		ParentTopicID: r.ParentTopicID.Value,
	}
}

func (r topicRequest) patch() model.TopicPatch {
	return model.TopicPatch{
		Name:          r.Name,
		Description:   r.Description,
		ParentTopicID: r.ParentTopicID,
	}
}

// skillRequest mirrors the JSON body of POST and PUT /skills.
type skillRequest struct {
	Name       model.Optional[string] `json:"name"`
	TopicID    model.Optional[string] `json:"topicID"`
	Difficulty model.Optional[string] `json:"difficulty"`
}

func (r skillRequest) input() model.SkillInput {
	return model.SkillInput{
		Name:       r.Name.Or(""),
		TopicID:    r.TopicID.Or(""),
		Difficulty: r.Difficulty.Value,
	}
}

func (r skillRequest) patch() model.SkillPatch {
	return model.SkillPatch{
		Name:       r.Name,
		TopicID:    r.TopicID,
		Difficulty: r.Difficulty,
	}
}

// bindBody decodes the JSON body into dst. A missing or unparsable body
// leaves dst as an empty object, so field rules report what is missing. A
// well-formed body with a value of the wrong type is a validation error.
func bindBody[T any](c *gin.Context, dst *T) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeError(typeErr)
	}
	var zero T
	*dst = zero
	return nil
}

func typeError(err *json.UnmarshalTypeError) error {
	if err.Field == "" {
		return model.Validation("Request body has a value of the wrong type.")
	}
	want := "a string"
	if err.Type != nil && err.Type.Kind() != reflect.String {
		want = "of type " + err.Type.String()
	}
	return model.Validation("Field '%s' must be %s.", err.Field, want)
}
