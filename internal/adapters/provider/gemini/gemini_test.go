package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/okian/interviewcoach/internal/adapters/provider"
	"github.com/okian/interviewcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeModels struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
}

func (f *fakeModels) GenerateContent(_ context.Context, m string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = m
	f.contents = contents
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestClient(t *testing.T) {
	Convey("Given a client backed by a fake model", t, func() {
		fake := &fakeModels{}
		c := newClient(fake, WithModel("test-model"))

		Convey("It identifies itself", func() {
			So(c.Name(), ShouldEqual, "gemini")
		})

		Convey("When questions come back fenced and numbered", func() {
			fake.text = "```\n1. Why Go?\n2. Why Go?\n3. Describe a deadline you missed?\nNot a question\n```"
			qs, err := c.GenerateQuestions(context.Background(), model.CategorySoftware, "Go Developer", 5)

			Convey("Then only distinct questions are returned", func() {
				So(err, ShouldBeNil)
				So(qs, ShouldResemble, []string{"Why Go?", "Describe a deadline you missed?"})
				So(fake.model, ShouldEqual, "test-model")
			})
		})

		Convey("When the model returns no questions", func() {
			fake.text = "I cannot help with that."
			_, err := c.GenerateQuestions(context.Background(), model.CategoryGeneric, "Chef", 3)
			So(errors.Is(err, provider.ErrEmptyResponse), ShouldBeTrue)
		})

		Convey("When the API fails", func() {
			fake.err = errors.New("quota")
			_, err := c.GenerateQuestions(context.Background(), model.CategoryGeneric, "Chef", 3)
			So(err, ShouldNotBeNil)
		})

		Convey("When transcribing a recording", func() {
			fake.text = "  I led the migration and cut latency by 30%.  "
			text, err := c.Transcribe(context.Background(), model.Upload{Name: "a.webm", Data: []byte{1, 2, 3}})

			Convey("Then the media is sent inline with a prompt", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "I led the migration and cut latency by 30%.")
				So(len(fake.contents), ShouldEqual, 1)
				So(len(fake.contents[0].Parts), ShouldEqual, 2)
				So(fake.contents[0].Parts[1].InlineData.MIMEType, ShouldEqual, "video/mp4")
			})
		})

		Convey("When the upload has no bytes", func() {
			_, err := c.Transcribe(context.Background(), model.Upload{Name: "a.mp4", Size: 10})
			So(errors.Is(err, provider.ErrNoMedia), ShouldBeTrue)
		})
	})
}
