package sampling_test

import (
	"math"
	"testing"

	"github.com/okian/interviewcoach/internal/domain/sampling"
	. "github.com/smartystreets/goconvey/convey"
)

func distinct(idx []int, n int) bool {
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

func TestRollingHash(t *testing.T) {
	Convey("Given the rolling hash", t, func() {
		Convey("Then the empty string hashes to zero", func() {
			So(sampling.RollingHash(""), ShouldEqual, 0)
		})

		Convey("Then short strings match h*31+rune", func() {
			// 'a' = 97, 'b' = 98 -> 97*31 + 98
			So(sampling.RollingHash("ab"), ShouldEqual, 97*31+98)
		})

		Convey("Then the result is never negative", func() {
			for _, s := range []string{"a.mp4:10485760", "interview-final-take.webm:123456789", "zzzzzzzzzzzzzzzzzzzz"} {
				So(sampling.RollingHash(s), ShouldBeGreaterThanOrEqualTo, 0)
				So(sampling.RollingHash(s), ShouldBeLessThanOrEqualTo, int64(math.MaxInt32)+1)
			}
		})

		Convey("Then it is stable", func() {
			So(sampling.RollingHash("a.mp4:10485760"), ShouldEqual, sampling.RollingHash("a.mp4:10485760"))
		})
	})
}

func TestHashSampler(t *testing.T) {
	Convey("Given a hash sampler", t, func() {
		s := sampling.NewHashSampler()

		Convey("When picking fewer than available", func() {
			for key := int64(0); key < 200; key++ {
				for n := 1; n <= 12; n++ {
					got := s.Pick(key, n, 4)
					So(len(got), ShouldEqual, min(4, n))
					So(distinct(got, n), ShouldBeTrue)
				}
			}
		})

		Convey("When picking more than available", func() {
			got := s.Pick(17, 3, 10)
			So(len(got), ShouldEqual, 3)
			So(distinct(got, 3), ShouldBeTrue)
		})

		Convey("When the pool or request is empty", func() {
			So(s.Pick(1, 0, 3), ShouldBeEmpty)
			So(s.Pick(1, 5, 0), ShouldBeEmpty)
		})

		Convey("When the same key is used twice", func() {
			So(s.Pick(123456, 10, 5), ShouldResemble, s.Pick(123456, 10, 5))
		})

		Convey("When keys differ", func() {
			So(s.Pick(1, 10, 5), ShouldNotResemble, s.Pick(2, 10, 5))
		})

		Convey("When the key is negative", func() {
			got := s.Pick(-42, 7, 3)
			So(distinct(got, 7), ShouldBeTrue)
		})
	})
}

func TestRandSampler(t *testing.T) {
	Convey("Given two rand samplers with the same seed", t, func() {
		a := sampling.NewRandSampler(7)
		b := sampling.NewRandSampler(7)

		Convey("Then they produce the same sequence", func() {
			for i := 0; i < 5; i++ {
				So(a.Pick(0, 10, 4), ShouldResemble, b.Pick(0, 10, 4))
			}
		})

		Convey("Then picks are distinct and bounded", func() {
			got := a.Pick(0, 6, 10)
			So(len(got), ShouldEqual, 6)
			So(distinct(got, 6), ShouldBeTrue)
		})
	})
}
