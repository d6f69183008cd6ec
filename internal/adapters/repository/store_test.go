package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/interviewcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func stores(t *testing.T, clock *fixedClock) map[string]Store {
	sqliteFile, err := NewSQLiteStore(filepath.Join(t.TempDir(), "coach.db"), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqliteMem, err := NewSQLiteStore(":memory:", WithClock(clock.Now))
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	t.Cleanup(func() {
		sqliteFile.Close()
		sqliteMem.Close()
	})
	return map[string]Store{
		"memory":        NewMemoryStore(WithClock(clock.Now)),
		"sqlite-file":   sqliteFile,
		"sqlite-memory": sqliteMem,
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for name, s := range stores(t, &fixedClock{now: base}) {
		s := s
		Convey("Given the "+name+" store", t, func() {
			Convey("When users are created", func() {
				ada := model.User{ID: "u-" + name + "-1", Name: "Ada", Email: name + "-ada@example.com", PasswordHash: "h", CreatedAt: base}
				err := s.CreateUser(ctx, ada)
				if err != nil && !errors.Is(err, ErrDuplicateEmail) {
					So(err, ShouldBeNil)
				}

				Convey("Then they can be found by email and id", func() {
					got, err := s.FindByEmail(ctx, ada.Email)
					So(err, ShouldBeNil)
					So(got.ID, ShouldEqual, ada.ID)
					So(got.PasswordHash, ShouldEqual, "h")
					So(got.CreatedAt.Equal(base), ShouldBeTrue)

					byID, err := s.FindByID(ctx, ada.ID)
					So(err, ShouldBeNil)
					So(byID.Email, ShouldEqual, ada.Email)
				})

				Convey("Then a second account with the same email is refused", func() {
					dup := ada
					dup.ID = "u-" + name + "-dup"
					So(errors.Is(s.CreateUser(ctx, dup), ErrDuplicateEmail), ShouldBeTrue)
				})

				Convey("Then sessions come back newest first", func() {
					uid := ada.ID
					for i, r := range []float64{6, 7.5, 8} {
						So(s.AppendSession(ctx, model.Session{
							ID:        uid + "-s" + string(rune('a'+i)) + time.Now().Format("150405.000000000"),
							UserID:    uid,
							Field:     "Backend Engineer",
							Category:  model.CategorySoftware,
							Source:    model.SignalText,
							Rating:    r,
							CreatedAt: base.Add(time.Duration(i) * time.Hour),
						}), ShouldBeNil)
					}
					got, err := s.Sessions(ctx, uid, 2)
					So(err, ShouldBeNil)
					So(len(got), ShouldEqual, 2)
					So(got[0].Rating, ShouldEqual, 8)
					So(got[0].Category, ShouldEqual, model.CategorySoftware)
					So(got[0].CreatedAt.After(got[1].CreatedAt), ShouldBeTrue)
				})
			})

			Convey("When looking up unknown records", func() {
				_, err := s.FindByEmail(ctx, "ghost@example.com")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				_, err = s.Job(ctx, "missing")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(errors.Is(s.AppendSession(ctx, model.Session{ID: "x", UserID: "ghost"}), ErrNotFound), ShouldBeTrue)
				sessions, err := s.Sessions(ctx, "ghost", 0)
				So(err, ShouldBeNil)
				So(sessions, ShouldBeEmpty)
			})

			Convey("When a job is created", func() {
				id := "job-" + name + "-" + time.Now().Format("150405.000000000")
				So(s.CreateJob(ctx, model.AnalysisJob{ID: id, Field: "Data Analyst", Category: model.CategoryData}), ShouldBeNil)

				got, err := s.Job(ctx, id)
				So(err, ShouldBeNil)
				So(got.Status, ShouldEqual, model.JobPending)
				So(got.Result, ShouldBeNil)

				Convey("And it completes", func() {
					res := model.AnalysisResult{
						Rating:   7.5,
						Mistakes: []model.Mistake{{Timestamp: "0:30", Text: "No measurable results mentioned"}},
						Tips:     []string{"Quantify impact", "Lead with the result"},
						Summary:  "good",
					}
					So(s.CompleteJob(ctx, id, model.SignalText, res), ShouldBeNil)

					Convey("Then the result round-trips and the job is final", func() {
						got, err := s.Job(ctx, id)
						So(err, ShouldBeNil)
						So(got.Status, ShouldEqual, model.JobCompleted)
						So(got.Source, ShouldEqual, model.SignalText)
						So(*got.Result, ShouldResemble, res)
						So(got.UpdatedAt.After(got.CreatedAt), ShouldBeTrue)

						So(errors.Is(s.FailJob(ctx, id, "late"), ErrJobFinished), ShouldBeTrue)
					})
				})

				Convey("And it fails", func() {
					So(s.FailJob(ctx, id, "provider unavailable"), ShouldBeNil)
					got, err := s.Job(ctx, id)
					So(err, ShouldBeNil)
					So(got.Status, ShouldEqual, model.JobFailed)
					So(got.Error, ShouldEqual, "provider unavailable")

					counts, err := s.CountJobs(ctx)
					So(err, ShouldBeNil)
					So(counts[model.JobFailed], ShouldBeGreaterThanOrEqualTo, 1)
				})
			})

			Convey("When finishing an unknown job", func() {
				So(errors.Is(s.CompleteJob(ctx, "nope", model.SignalFile, model.AnalysisResult{}), ErrNotFound), ShouldBeTrue)
			})
		})
	}
}

func TestOpen(t *testing.T) {
	Convey("Given store drivers", t, func() {
		Convey("When the driver is memory or empty", func() {
			for _, d := range []string{"", "memory", " Memory "} {
				s, err := Open(d, "")
				So(err, ShouldBeNil)
				_, ok := s.(*MemoryStore)
				So(ok, ShouldBeTrue)
			}
		})

		Convey("When the driver is sqlite", func() {
			s, err := Open("sqlite", filepath.Join(t.TempDir(), "nested", "coach.db"))
			So(err, ShouldBeNil)
			So(s.Close(), ShouldBeNil)
		})

		Convey("When the driver is unknown", func() {
			_, err := Open("postgres", "")
			So(errors.Is(err, ErrUnknownDriver), ShouldBeTrue)
		})

		Convey("When a sqlite database is reopened", func() {
			path := filepath.Join(t.TempDir(), "coach.db")
			first, err := NewSQLiteStore(path)
			So(err, ShouldBeNil)
			So(first.CreateUser(context.Background(), model.User{ID: "u1", Name: "A", Email: "a@x.io", PasswordHash: "h"}), ShouldBeNil)
			So(first.Close(), ShouldBeNil)

			second, err := NewSQLiteStore(path)
			So(err, ShouldBeNil)
			defer second.Close()

			Convey("Then migrations are not re-applied and data survives", func() {
				u, err := second.FindByEmail(context.Background(), "a@x.io")
				So(err, ShouldBeNil)
				So(u.ID, ShouldEqual, "u1")
			})
		})
	})
}
