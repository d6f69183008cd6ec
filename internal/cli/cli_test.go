package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/interviewcoach/internal/adapters/http/api"
	service "github.com/okian/interviewcoach/internal/app"
	"github.com/okian/interviewcoach/internal/domain/model"
	logging "github.com/okian/interviewcoach/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logging.Init(logging.WithOutput(io.Discard))
}

func run(factory coachFactory, args ...string) (string, error) {
	root := newRootCommand(factory)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func newTestServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	svc := service.New(
		service.WithWorkerCount(2),
		service.WithQueueSize(64),
		service.WithLogger(logging.Nop()),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv, svc
}

func TestLocalCommands(t *testing.T) {
	Convey("Given coachctl running in-process", t, func() {
		Convey("classify prints the category", func() {
			out, err := run(defaultCoach, "classify", "  Senior", "Java", "Developer ")
			So(err, ShouldBeNil)
			So(strings.TrimSpace(out), ShouldEqual, "java")
		})

		Convey("classify --json includes the trimmed field", func() {
			out, err := run(defaultCoach, "--json", "classify", "Marketing Intern")
			So(err, ShouldBeNil)
			var got map[string]string
			So(json.Unmarshal([]byte(out), &got), ShouldBeNil)
			So(got["category"], ShouldEqual, "intern")
			So(got["field"], ShouldEqual, "Marketing Intern")
		})

		Convey("classify rejects a blank field", func() {
			_, err := run(defaultCoach, "classify", "   ")
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("questions honours --count and template source", func() {
			out, err := run(defaultCoach, "--json", "questions", "Data Scientist", "--count", "3")
			So(err, ShouldBeNil)
			var qs model.GeneratedQuestions
			So(json.Unmarshal([]byte(out), &qs), ShouldBeNil)
			So(qs.Category, ShouldEqual, model.CategoryData)
			So(qs.Source, ShouldEqual, model.SourceTemplate)
			So(len(qs.Questions), ShouldEqual, 3)
			for _, q := range qs.Questions {
				So(strings.HasSuffix(q, "?"), ShouldBeTrue)
			}
		})

		Convey("questions clamps an oversized count", func() {
			out, err := run(defaultCoach, "--json", "questions", "Product Manager", "-n", "99")
			So(err, ShouldBeNil)
			var qs model.GeneratedQuestions
			So(json.Unmarshal([]byte(out), &qs), ShouldBeNil)
			So(len(qs.Questions), ShouldBeLessThanOrEqualTo, model.MaxQuestionCount)
			So(len(qs.Questions), ShouldBeGreaterThan, 0)
		})

		Convey("questions prints a numbered list", func() {
			out, err := run(defaultCoach, "questions", "UX Designer", "-n", "2")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, " 1. ")
			So(out, ShouldContainSubstring, " 2. ")
			So(out, ShouldNotContainSubstring, " 3. ")
		})

		Convey("score with an empty transcript reports no speech", func() {
			out, err := run(defaultCoach, "--json", "score", "Backend Engineer", "--transcript", "")
			So(err, ShouldBeNil)
			var a model.Analysis
			So(json.Unmarshal([]byte(out), &a), ShouldBeNil)
			So(a.Rating, ShouldEqual, 1.0)
			So(len(a.Mistakes), ShouldEqual, 1)
			So(a.Mistakes[0].Timestamp, ShouldEqual, "0:00")
			So(a.Source, ShouldEqual, model.SignalText)
		})

		Convey("score with a file identity is deterministic", func() {
			args := []string{"--json", "score", "Software Engineer", "--file", "answer.mp4", "--size", "1048576"}
			first, err := run(defaultCoach, args...)
			So(err, ShouldBeNil)
			second, err := run(defaultCoach, args...)
			So(err, ShouldBeNil)
			So(first, ShouldEqual, second)

			var a model.Analysis
			So(json.Unmarshal([]byte(first), &a), ShouldBeNil)
			So(a.Source, ShouldEqual, model.SignalFile)
			So(a.Rating, ShouldBeBetweenOrEqual, 1.0, 9.0)
		})

		Convey("score without a signal prints the baseline report", func() {
			out, err := run(defaultCoach, "score", "Accountant")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "scored 6.5/10")
			So(out, ShouldContainSubstring, "Tips:")
		})

		Convey("score rejects conflicting or partial signals", func() {
			_, err := run(defaultCoach, "score", "Java", "--transcript", "hi", "--file", "a.mp4", "--size", "1")
			So(err, ShouldNotBeNil)
			_, err = run(defaultCoach, "score", "Java", "--file", "a.mp4")
			So(err, ShouldNotBeNil)
			_, err = run(defaultCoach, "score", "Java", "--file", "a.mp4", "--size", "-1")
			So(err, ShouldNotBeNil)
		})

		Convey("a missing catalog file fails before running", func() {
			_, err := run(defaultCoach, "--catalog", "/nonexistent/catalog.yaml", "classify", "Java")
			So(err, ShouldNotBeNil)
		})

		Convey("load requires a server", func() {
			_, err := run(defaultCoach, "load")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRemoteCommands(t *testing.T) {
	srv, _ := newTestServer(t)

	Convey("Given coachctl pointed at a server", t, func() {
		Convey("classify goes through the API", func() {
			out, err := run(defaultCoach, "--server", srv.URL, "classify", "Growth Marketing Lead")
			So(err, ShouldBeNil)
			So(strings.TrimSpace(out), ShouldEqual, "marketing")
		})

		Convey("questions and score match the in-process results", func() {
			remote, err := run(defaultCoach, "--server", srv.URL, "--json", "score", "Java Developer", "--file", "x.webm", "--size", "2048")
			So(err, ShouldBeNil)
			local, err := run(defaultCoach, "--json", "score", "Java Developer", "--file", "x.webm", "--size", "2048")
			So(err, ShouldBeNil)
			So(remote, ShouldEqual, local)

			out, err := run(defaultCoach, "--server", srv.URL, "--json", "questions", "Intern", "-n", "2")
			So(err, ShouldBeNil)
			var qs model.GeneratedQuestions
			So(json.Unmarshal([]byte(out), &qs), ShouldBeNil)
			So(len(qs.Questions), ShouldEqual, 2)
		})

		Convey("server errors surface as model kinds", func() {
			_, err := run(defaultCoach, "--server", srv.URL, "classify", " ")
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			var apiErr *APIError
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Status, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestClient(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(srv.URL+"/", time.Second)
	ctx := context.Background()

	Convey("Given a client for a running server", t, func() {
		So(c.Health(ctx), ShouldBeNil)

		Convey("Submit queues a job and a repeated key is a duplicate", func() {
			text := "I built a payment service in Go and reduced p99 latency by 30%."
			req := model.AnalysisRequest{Field: "Software Engineer", Transcript: &text}
			job, dup, err := c.Submit(ctx, req, "client-key-1")
			So(err, ShouldBeNil)
			So(dup, ShouldBeFalse)
			So(job.ID, ShouldNotBeEmpty)

			again, dup, err := c.Submit(ctx, req, "client-key-1")
			So(err, ShouldBeNil)
			So(dup, ShouldBeTrue)
			So(again.ID, ShouldEqual, job.ID)

			stats := LoadStats{}
			settle(ctx, c, map[string]struct{}{job.ID: {}}, 5*time.Second, &stats)
			So(stats.Completed, ShouldEqual, int64(1))
			So(stats.Pending, ShouldEqual, int64(0))

			got, err := c.Job(ctx, job.ID)
			So(err, ShouldBeNil)
			So(got.Status, ShouldEqual, model.JobCompleted)
			So(got.Result, ShouldNotBeNil)
		})

		Convey("Job reports not found for an unknown id", func() {
			_, err := c.Job(ctx, "does-not-exist")
			So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
		})
	})
}

type fakeSubmitter struct {
	healthErr error
	submitErr error
}

func (f *fakeSubmitter) Health(context.Context) error { return f.healthErr }

func (f *fakeSubmitter) Submit(_ context.Context, _ model.AnalysisRequest, key string) (model.AnalysisJob, bool, error) {
	if f.submitErr != nil {
		return model.AnalysisJob{}, false, f.submitErr
	}
	return model.AnalysisJob{ID: key, Status: model.JobPending}, false, nil
}

func (f *fakeSubmitter) Job(_ context.Context, id string) (model.AnalysisJob, error) {
	return model.AnalysisJob{ID: id, Status: model.JobCompleted}, nil
}

func TestRunLoad(t *testing.T) {
	Convey("Given a load run", t, func() {
		ctx := context.Background()

		Convey("every request is accounted for against a real server", func() {
			srv, _ := newTestServer(t)
			stats, err := RunLoad(ctx, NewClient(srv.URL, 5*time.Second), LoadConfig{
				Requests: 40, Workers: 4, DuplicateRate: 0.25, Settle: 10 * time.Second, Seed: 7,
			})
			So(err, ShouldBeNil)
			So(stats.Submitted, ShouldEqual, int64(40))
			So(stats.Accepted+stats.Duplicate+stats.Rejected+stats.Failed, ShouldEqual, int64(40))
			So(stats.Failed, ShouldEqual, int64(0))
			So(stats.Completed+stats.JobFailures+stats.Pending, ShouldEqual, stats.Accepted)
		})

		Convey("backpressure is counted as rejected", func() {
			stats, err := RunLoad(ctx, &fakeSubmitter{submitErr: &APIError{Status: 429, Code: "backpressure"}}, LoadConfig{Requests: 5, Workers: 2})
			So(err, ShouldBeNil)
			So(stats.Rejected, ShouldEqual, int64(5))
			So(stats.Accepted, ShouldEqual, int64(0))
		})

		Convey("an unhealthy server aborts the run", func() {
			_, err := RunLoad(ctx, &fakeSubmitter{healthErr: errors.New("down")}, LoadConfig{Requests: 1})
			So(err, ShouldNotBeNil)
		})

		Convey("requests must be positive", func() {
			_, err := RunLoad(ctx, &fakeSubmitter{}, LoadConfig{})
			So(err, ShouldNotBeNil)
		})

		Convey("generated duplicates reuse an earlier key", func() {
			items := generateLoad(LoadConfig{Requests: 200, DuplicateRate: 0.5, Seed: 3})
			So(len(items), ShouldEqual, 200)
			keys := map[string]int{}
			for _, it := range items {
				keys[it.key]++
				So(it.req.Transcript != nil || it.req.Upload != nil, ShouldBeTrue)
			}
			So(len(keys), ShouldBeLessThan, 200)
		})
	})
}
