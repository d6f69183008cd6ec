package classify_test

import (
	"strings"
	"testing"

	"github.com/okian/interviewcoach/internal/domain/catalog"
	"github.com/okian/interviewcoach/internal/domain/classify"
	"github.com/okian/interviewcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given the default classifier", t, func() {
		c := classify.New(nil)

		Convey("When the field names a java role", func() {
			So(c.Classify("Senior Java Backend Engineer"), ShouldEqual, model.CategoryJava)
			So(c.Keyword("Senior Java Backend Engineer"), ShouldEqual, "java")
		})

		Convey("When the field mixes intern and marketing", func() {
			So(c.Classify("Marketing Intern"), ShouldEqual, model.CategoryIntern)
		})

		Convey("When casing and whitespace vary", func() {
			for _, q := range []string{"  DATA scientist ", "data Scientist", "\tData\n"} {
				So(c.Classify(q), ShouldEqual, model.CategoryData)
			}
		})

		Convey("When a keyword appears inside a longer word", func() {
			So(c.Classify("JavaFX contractor"), ShouldEqual, model.CategoryJava)
		})

		Convey("When nothing matches", func() {
			So(c.Classify("Pastry Chef"), ShouldEqual, model.CategoryGeneric)
			So(c.Keyword("Pastry Chef"), ShouldBeEmpty)
		})

		Convey("When the query is blank", func() {
			So(c.Classify("   "), ShouldEqual, model.CategoryGeneric)
		})

		Convey("Then every keyword of every entry resolves to its category or an earlier one", func() {
			table := catalog.Default()
			order := map[model.Category]int{}
			for i, e := range table.Entries {
				order[e.Category] = i
			}
			for _, e := range table.Classified() {
				for _, kw := range e.Keywords {
					got := c.Classify("  " + strings.ToUpper(kw) + "  ")
					So(got, ShouldNotEqual, model.CategoryGeneric)
					So(order[got], ShouldBeLessThanOrEqualTo, order[e.Category])
				}
			}
		})

		Convey("Then common fields land where expected", func() {
			cases := map[string]model.Category{
				"Frontend Developer":         model.CategorySoftware,
				"Product Manager":            model.CategoryProduct,
				"UX Researcher":              model.CategoryDesign,
				"SEO Specialist":             model.CategoryMarketing,
				"Machine Learning Scientist": model.CategoryData,
				"Summer Internship":          model.CategoryIntern,
				"Spring Boot developer":      model.CategoryJava,
			}
			for q, want := range cases {
				So(c.Classify(q), ShouldEqual, want)
			}
		})
	})

	Convey("Given a validated field query", t, func() {
		c := classify.New(catalog.Default())
		q, err := model.ParseFieldQuery("  Graphic Designer ")
		So(err, ShouldBeNil)

		Convey("Then ClassifyQuery agrees with Classify", func() {
			So(c.ClassifyQuery(q), ShouldEqual, model.CategoryDesign)
		})
	})
}
