package validate_test

import (
	"errors"
	"testing"

	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/internal/domain/validate"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(s string) *string { return &s }

func TestName(t *testing.T) {
	Convey("Given a raw name", t, func() {
		Convey("When it has surrounding whitespace", func() {
			name, err := validate.Name("  Databases 101 \t")

			Convey("Then it is trimmed", func() {
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "Databases 101")
			})
		})

		Convey("When it is empty or whitespace only", func() {
			for _, raw := range []string{"", "   ", "\n\t"} {
				_, err := validate.Name(raw)
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "Field 'name' is required.")
			}
		})
	})
}

func TestRefAndDifficulty(t *testing.T) {
	Convey("Given optional references", t, func() {
		So(validate.Ref(nil), ShouldBeNil)
		So(validate.Ref(ptr("  ")), ShouldBeNil)
		So(*validate.Ref(ptr(" abc ")), ShouldEqual, "abc")
	})

	Convey("Given optional difficulties", t, func() {
		So(validate.Difficulty(nil), ShouldEqual, "beginner")
		So(validate.Difficulty(ptr("   ")), ShouldEqual, "beginner")
		So(validate.Difficulty(ptr(" advanced ")), ShouldEqual, "advanced")
	})
}

func TestParsePage(t *testing.T) {
	Convey("Given raw pagination values", t, func() {
		Convey("When both are empty", func() {
			limit, offset, err := validate.ParsePage("", "")
			So(err, ShouldBeNil)
			So(limit, ShouldEqual, 50)
			So(offset, ShouldEqual, 0)
		})

		Convey("When limit exceeds the cap", func() {
			limit, _, err := validate.ParsePage("1000", "")
			So(err, ShouldBeNil)
			So(limit, ShouldEqual, 200)
		})

		Convey("When offset is negative", func() {
			_, offset, err := validate.ParsePage("10", "-7")
			So(err, ShouldBeNil)
			So(offset, ShouldEqual, 0)
		})

		Convey("When limit is negative", func() {
			_, _, err := validate.ParsePage("-1", "0")
			So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
		})

		Convey("When a value is not a number", func() {
			_, _, err := validate.ParsePage("ten", "0")
			So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "limit/offset must be numbers")

			_, _, err = validate.ParsePage("10", "1.5")
			So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
		})
	})
}
