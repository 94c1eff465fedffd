package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/learnmap/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

type patchBody struct {
	Description model.Optional[string] `json:"description"`
}

func TestOptional(t *testing.T) {
	convey.Convey("Given a JSON body with an optional field", t, func() {
		convey.Convey("When the key is absent", func() {
			var b patchBody
			convey.So(json.Unmarshal([]byte(`{}`), &b), convey.ShouldBeNil)

			convey.Convey("Then the field is unset", func() {
				convey.So(b.Description.Set, convey.ShouldBeFalse)
				convey.So(b.Description.Or("kept"), convey.ShouldEqual, "kept")
			})
		})

		convey.Convey("When the key is null", func() {
			var b patchBody
			convey.So(json.Unmarshal([]byte(`{"description":null}`), &b), convey.ShouldBeNil)

			convey.Convey("Then the field is set with no value", func() {
				convey.So(b.Description.Set, convey.ShouldBeTrue)
				convey.So(b.Description.Value, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the key holds a string", func() {
			var b patchBody
			convey.So(json.Unmarshal([]byte(`{"description":"SQL"}`), &b), convey.ShouldBeNil)

			convey.Convey("Then the value is captured", func() {
				convey.So(b.Description.Set, convey.ShouldBeTrue)
				convey.So(*b.Description.Value, convey.ShouldEqual, "SQL")
			})
		})

		convey.Convey("When the key holds the wrong type", func() {
			var b patchBody
			err := json.Unmarshal([]byte(`{"description":42}`), &b)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestNewPage(t *testing.T) {
	convey.Convey("Given no items", t, func() {
		page := model.NewPage[model.Topic](nil, 3, 50, 10)
		raw, err := json.Marshal(page)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(raw), convey.ShouldEqual, `{"data":[],"meta":{"total":3,"limit":50,"offset":10}}`)
	})
}
