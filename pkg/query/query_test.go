package query_test

import (
	"testing"

	"github.com/JaimeStill/cropwise/pkg/query"
)

const cols = "p.id, p.crop_name, p.planted_on"

func plantingProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "plantings", "p").
		Project("id", "ID").
		Project("crop_name", "CropName").
		Project("planted_on", "PlantedOn")
}

func ptr(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := plantingProjection()

	if got := p.Table(); got != "public.plantings p" {
		t.Errorf("Table() = %q", got)
	}
	if got := p.From(); got != "public.plantings p" {
		t.Errorf("From() without joins = %q", got)
	}
	if got := p.Alias(); got != "p" {
		t.Errorf("Alias() = %q", got)
	}
	if got := p.Columns(); got != cols {
		t.Errorf("Columns() = %q", got)
	}
	if got := len(p.ColumnList()); got != 3 {
		t.Errorf("len(ColumnList()) = %d, want 3", got)
	}

	tests := []struct {
		view string
		want string
	}{
		{"CropName", "p.crop_name"},
		{"PlantedOn", "p.planted_on"},
		{"unmapped", "unmapped"},
	}
	for _, tt := range tests {
		if got := p.Column(tt.view); got != tt.want {
			t.Errorf("Column(%q) = %q, want %q", tt.view, got, tt.want)
		}
	}
}

func TestProjectionMapJoin(t *testing.T) {
	p := query.NewProjectionMap("public", "plantings", "p").
		Project("id", "ID").
		Join("public", "crops", "c", "LEFT JOIN", "p.crop_id = c.id").
		Project("season", "Season")

	if got := p.Column("Season"); got != "c.season" {
		t.Errorf("Column(Season) = %q, want c.season", got)
	}
	if got := p.Column("ID"); got != "p.id" {
		t.Errorf("Column(ID) = %q, want p.id", got)
	}

	want := "public.plantings p LEFT JOIN public.crops c ON p.crop_id = c.id"
	if got := p.From(); got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}

	sql, _ := query.NewBuilder(p).BuildCount()
	if sql != "SELECT COUNT(*) FROM "+want {
		t.Errorf("BuildCount() = %q", sql)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"ascending", "CropName", []query.SortField{{Field: "CropName"}}},
		{"descending", "-PlantedOn", []query.SortField{{Field: "PlantedOn", Descending: true}}},
		{"mixed with spaces", " CropName , -PlantedOn ", []query.SortField{
			{Field: "CropName"},
			{Field: "PlantedOn", Descending: true},
		}},
		{"empty parts skipped", "CropName,,ID", []query.SortField{{Field: "CropName"}, {Field: "ID"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderStatements(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (string, []any)
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "build",
			build:   query.NewBuilder(plantingProjection()).Build,
			wantSQL: "SELECT " + cols + " FROM public.plantings p",
		},
		{
			name:    "count",
			build:   query.NewBuilder(plantingProjection()).BuildCount,
			wantSQL: "SELECT COUNT(*) FROM public.plantings p",
		},
		{
			name: "page with default sort",
			build: func() (string, []any) {
				return query.NewBuilder(plantingProjection(), query.SortField{Field: "PlantedOn", Descending: true}).BuildPage(2, 10)
			},
			wantSQL: "SELECT " + cols + " FROM public.plantings p ORDER BY p.planted_on DESC LIMIT 10 OFFSET 10",
		},
		{
			name: "single",
			build: func() (string, []any) {
				return query.NewBuilder(plantingProjection()).BuildSingle("ID", "abc")
			},
			wantSQL:  "SELECT " + cols + " FROM public.plantings p WHERE p.id = $1",
			wantArgs: 1,
		},
		{
			name: "single or null",
			build: func() (string, []any) {
				return query.NewBuilder(plantingProjection()).WhereEquals("CropName", "Rice").BuildSingleOrNull()
			},
			wantSQL:  "SELECT " + cols + " FROM public.plantings p WHERE p.crop_name = $1 LIMIT 1",
			wantArgs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build()
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d", args, tt.wantArgs)
			}
		})
	}
}

func TestBuilderConditions(t *testing.T) {
	var nilStage *string

	tests := []struct {
		name      string
		apply     func(*query.Builder)
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "equals",
			apply:     func(b *query.Builder) { b.WhereEquals("CropName", "Tomato") },
			wantWhere: " WHERE p.crop_name = $1",
			wantArgs:  []any{"Tomato"},
		},
		{
			name:  "equals nil pointer skipped",
			apply: func(b *query.Builder) { b.WhereEquals("CropName", nilStage) },
		},
		{
			name:      "contains",
			apply:     func(b *query.Builder) { b.WhereContains("CropName", ptr("tom")) },
			wantWhere: " WHERE p.crop_name ILIKE $1",
			wantArgs:  []any{"%tom%"},
		},
		{
			name:  "contains empty skipped",
			apply: func(b *query.Builder) { b.WhereContains("CropName", ptr("")) },
		},
		{
			name: "planted window",
			apply: func(b *query.Builder) {
				b.WhereFrom("PlantedOn", "2024-03-01").WhereBefore("PlantedOn", "2024-04-01")
			},
			wantWhere: " WHERE p.planted_on >= $1 AND p.planted_on < $2",
			wantArgs:  []any{"2024-03-01", "2024-04-01"},
		},
		{
			name: "open bounds skipped",
			apply: func(b *query.Builder) {
				b.WhereFrom("PlantedOn", nilStage).WhereBefore("PlantedOn", nil)
			},
		},
		{
			name:      "search across fields",
			apply:     func(b *query.Builder) { b.WhereSearch(ptr("ri"), "CropName", "ID") },
			wantWhere: " WHERE (p.crop_name ILIKE $1 OR p.id ILIKE $2)",
			wantArgs:  []any{"%ri%", "%ri%"},
		},
		{
			name: "parameters number across conditions",
			apply: func(b *query.Builder) {
				b.WhereEquals("CropName", "Rice").WhereContains("ID", ptr("9"))
			},
			wantWhere: " WHERE p.crop_name = $1 AND p.id ILIKE $2",
			wantArgs:  []any{"Rice", "%9%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(plantingProjection())
			tt.apply(b)
			sql, args := b.Build()

			want := "SELECT " + cols + " FROM public.plantings p" + tt.wantWhere
			if sql != want {
				t.Errorf("sql = %q, want %q", sql, want)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestBuilderOrderByOverridesDefault(t *testing.T) {
	b := query.NewBuilder(plantingProjection(), query.SortField{Field: "ID"})
	b.OrderByFields([]query.SortField{
		{Field: "PlantedOn", Descending: true},
		{Field: "CropName"},
	})
	sql, _ := b.Build()

	want := "SELECT " + cols + " FROM public.plantings p ORDER BY p.planted_on DESC, p.crop_name ASC"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}
