package catalog

import (
	"context"
	"testing"

	"course_match_server/internal/model"
	"course_match_server/internal/testfixtures"
	"course_match_server/pkg/errorx"
)

func TestFindMeetingsNormalizesRows(t *testing.T) {
	store := testfixtures.NewMemStore()
	store.PutCatalog(
		model.CatalogSection{Year: 2026, Term: 1, Index: "09214", MeetingDay: "M", StartTime: "1020", EndTime: "1140",
			Title: "INTRO COMPUTER SCI ", CourseCode: "01:198:111", Instructor: "MENENDEZ", Building: "HLL", RoomNumber: "114"},
		model.CatalogSection{Year: 2026, Term: 1, Index: "09214", MeetingDay: "H", StartTime: "0910", EndTime: "1030",
			Title: "INTRO COMPUTER SCI", Building: "ARC"},
		model.CatalogSection{Year: 2026, Term: 1, Index: "09214", MeetingDay: "X", StartTime: "0910", EndTime: "1030",
			Title: "INTRO COMPUTER SCI"},
		model.CatalogSection{Year: 2025, Term: 9, Index: "09214", MeetingDay: "W", StartTime: "0910", EndTime: "1030"},
	)
	svc := NewCatalogService(store.Repositories(), "Rutgers")

	meetings, err := svc.FindMeetings(context.Background(), 2026, 1, "09214")
	if err != nil {
		t.Fatalf("FindMeetings: %v", err)
	}
	if len(meetings) != 2 {
		t.Fatalf("want 2 meetings (bad day skipped), got %d", len(meetings))
	}
	var monday Meeting
	for _, m := range meetings {
		if m.DayOfWeek == 1 {
			monday = m
		}
	}
	want := Meeting{CourseName: "INTRO COMPUTER SCI", CourseCode: "01:198:111", School: "Rutgers", Semester: "Spring 2026",
		DayOfWeek: 1, StartTime: "10:20", EndTime: "11:40", Instructor: "MENENDEZ", Location: "HLL-114"}
	if monday != want {
		t.Fatalf("monday = %+v\nwant %+v", monday, want)
	}
}

func TestFindMeetingsErrors(t *testing.T) {
	svc := NewCatalogService(testfixtures.NewMemStore().Repositories(), "Rutgers")
	ctx := context.Background()

	if _, err := svc.FindMeetings(ctx, 2026, 3, "1"); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("bad term: %v", err)
	}
	if _, err := svc.FindMeetings(ctx, 2026, 1, "  "); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("blank index: %v", err)
	}
	if _, err := svc.FindMeetings(ctx, 2026, 1, "00000"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("missing index: %v", err)
	}
}

func TestSemesterLabel(t *testing.T) {
	cases := map[[2]int]string{{2026, 0}: "Winter 2026", {2026, 1}: "Spring 2026", {2026, 7}: "Summer 2026", {2025, 9}: "Fall 2025"}
	for in, want := range cases {
		got, err := SemesterLabel(in[0], in[1])
		if err != nil || got != want {
			t.Errorf("SemesterLabel(%d, %d) = %q, %v", in[0], in[1], got, err)
		}
	}
}
