package tables

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name     string
		aStart   string
		aEnd     string
		bStart   string
		bEnd     string
		expected bool
	}{
		{
			name:   "partial overlap conflicts",
			aStart: "2026-03-01 19:00", aEnd: "2026-03-01 20:00",
			bStart: "2026-03-01 19:30", bEnd: "2026-03-01 20:30",
			expected: true,
		},
		{
			name:   "adjacent windows do not conflict",
			aStart: "2026-03-01 19:00", aEnd: "2026-03-01 20:00",
			bStart: "2026-03-01 20:00", bEnd: "2026-03-01 21:00",
			expected: false,
		},
		{
			name:   "contained window conflicts",
			aStart: "2026-03-01 18:00", aEnd: "2026-03-01 22:00",
			bStart: "2026-03-01 19:00", bEnd: "2026-03-01 20:00",
			expected: true,
		},
		{
			name:   "identical window conflicts",
			aStart: "2026-03-01 19:00", aEnd: "2026-03-01 20:00",
			bStart: "2026-03-01 19:00", bEnd: "2026-03-01 20:00",
			expected: true,
		},
		{
			name:   "disjoint windows",
			aStart: "2026-03-01 12:00", aEnd: "2026-03-01 13:00",
			bStart: "2026-03-01 19:00", bEnd: "2026-03-01 20:00",
			expected: false,
		},
		{
			name:   "earlier adjacent window",
			aStart: "2026-03-01 18:00", aEnd: "2026-03-01 19:00",
			bStart: "2026-03-01 19:00", bEnd: "2026-03-01 20:00",
			expected: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(
				mustTime(t, tc.aStart), mustTime(t, tc.aEnd),
				mustTime(t, tc.bStart), mustTime(t, tc.bEnd),
			)
			if got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}

			// The predicate is symmetric.
			reversed := Overlaps(
				mustTime(t, tc.bStart), mustTime(t, tc.bEnd),
				mustTime(t, tc.aStart), mustTime(t, tc.aEnd),
			)
			if reversed != tc.expected {
				t.Fatalf("expected symmetry, got %v vs %v", got, reversed)
			}
		})
	}
}

func TestValidateReservation(t *testing.T) {
	start := mustTime(t, "2026-03-01 19:00")
	end := mustTime(t, "2026-03-01 20:00")

	valid := CreateReservationParams{
		CustomerName:  "Asha Rao",
		CustomerPhone: "9876543210",
		StartsAt:      start,
		EndsAt:        end,
		TableIDs:      []int64{1, 2},
	}

	cases := []struct {
		name    string
		mutate  func(p *CreateReservationParams)
		wantErr ErrorCode
	}{
		{name: "valid", mutate: func(p *CreateReservationParams) {}},
		{
			name:    "no tables",
			mutate:  func(p *CreateReservationParams) { p.TableIDs = nil },
			wantErr: ErrReservationInvalid,
		},
		{
			name:    "bad table id",
			mutate:  func(p *CreateReservationParams) { p.TableIDs = []int64{1, 0} },
			wantErr: ErrReservationInvalid,
		},
		{
			name:    "duplicate table id",
			mutate:  func(p *CreateReservationParams) { p.TableIDs = []int64{1, 1} },
			wantErr: ErrReservationInvalid,
		},
		{
			name:    "blank name",
			mutate:  func(p *CreateReservationParams) { p.CustomerName = "   " },
			wantErr: ErrReservationInvalid,
		},
		{
			name:    "short phone",
			mutate:  func(p *CreateReservationParams) { p.CustomerPhone = "12345" },
			wantErr: ErrReservationInvalid,
		},
		{
			name:    "reversed window",
			mutate:  func(p *CreateReservationParams) { p.StartsAt, p.EndsAt = end, start },
			wantErr: ErrReservationInvalid,
		},
		{
			name:    "empty window",
			mutate:  func(p *CreateReservationParams) { p.EndsAt = p.StartsAt },
			wantErr: ErrReservationInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := valid
			params.TableIDs = append([]int64(nil), valid.TableIDs...)
			tc.mutate(&params)

			err := validateReservation(params)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %s: %s", err.Code, err.Message)
				}
				return
			}
			if err == nil || err.Code != tc.wantErr {
				t.Fatalf("expected %s, got %v", tc.wantErr, err)
			}
		})
	}
}
