package service

import (
	"context"
	"errors"
	"testing"

	"github.com/uninorte/feria-gamer/internal/models"
	"gorm.io/gorm"
)

const adminID = 1

func catalogSetup(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	database := testDB(t)
	return NewCatalogService(database), database
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }
func intPtr(i int) *int       { return &i }

func wantValidation(t *testing.T, err error) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func wantConflict(t *testing.T, err error) {
	t.Helper()
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func mustGame(t *testing.T, svc *CatalogService, name string, max int) *models.Videojuego {
	t.Helper()
	g, err := svc.CreateVideojuego(context.Background(), CreateVideojuegoInput{Nombre: name, MaxJugadores: max}, adminID)
	if err != nil {
		t.Fatalf("create videojuego: %v", err)
	}
	return g
}

func mustStudent(t *testing.T, svc *CatalogService, email string) *models.Estudiante {
	t.Helper()
	st, err := svc.CreateEstudiante(context.Background(), CreateEstudianteInput{NombreCompleto: "Est " + email, Email: email}, adminID)
	if err != nil {
		t.Fatalf("create estudiante: %v", err)
	}
	return st
}

// --- Materias ---

func TestMateria_CRUD(t *testing.T) {
	svc, database := catalogSetup(t)
	ctx := context.Background()

	m, err := svc.CreateMateria(ctx, CreateMateriaInput{Codigo: "IST-2089", Nombre: "Estructuras"}, adminID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateMateria(ctx, m.ID, UpdateMateriaInput{Nombre: strPtr("Estructuras de Datos")}, adminID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Nombre != "Estructuras de Datos" || updated.Codigo != "IST-2089" {
		t.Errorf("unexpected materia after update: %+v", updated)
	}

	list, err := svc.ListMaterias(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}

	if err := svc.DeleteMateria(ctx, m.ID, adminID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetMateria(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteMateria(ctx, m.ID, adminID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}

	// Soft delete keeps the row
	var stored models.Materia
	if err := database.First(&stored, m.ID).Error; err != nil || !stored.Deleted {
		t.Errorf("row should remain with deleted=true, got %+v (%v)", stored, err)
	}

	if n := countRows(t, database, &models.AuditLog{}); n != 3 {
		t.Errorf("expected 3 audit entries, got %d", n)
	}
}

func TestMateria_DuplicateCodigo(t *testing.T) {
	svc, _ := catalogSetup(t)
	ctx := context.Background()

	a, _ := svc.CreateMateria(ctx, CreateMateriaInput{Codigo: "A1", Nombre: "A"}, adminID)
	_, err := svc.CreateMateria(ctx, CreateMateriaInput{Codigo: "A1", Nombre: "otra"}, adminID)
	wantConflict(t, err)

	b, _ := svc.CreateMateria(ctx, CreateMateriaInput{Codigo: "B1", Nombre: "B"}, adminID)
	_, err = svc.UpdateMateria(ctx, b.ID, UpdateMateriaInput{Codigo: strPtr(a.Codigo)}, adminID)
	wantConflict(t, err)
}

func TestMateria_DeleteWithActiveNrc(t *testing.T) {
	svc, _ := catalogSetup(t)
	ctx := context.Background()

	m, _ := svc.CreateMateria(ctx, CreateMateriaInput{Codigo: "A1", Nombre: "A"}, adminID)
	if _, err := svc.CreateNrc(ctx, CreateNrcInput{Codigo: "1001", Periodo: "202610", MateriaID: m.ID}, adminID); err != nil {
		t.Fatalf("create nrc: %v", err)
	}
	wantConflict(t, svc.DeleteMateria(ctx, m.ID, adminID))
}

// --- NRC ---

func TestNrc_RequiresActiveMateria(t *testing.T) {
	svc, _ := catalogSetup(t)
	ctx := context.Background()

	_, err := svc.CreateNrc(ctx, CreateNrcInput{Codigo: "1001", MateriaID: 99}, adminID)
	wantValidation(t, err)

	m, _ := svc.CreateMateria(ctx, CreateMateriaInput{Codigo: "A1", Nombre: "A"}, adminID)
	n, err := svc.CreateNrc(ctx, CreateNrcInput{Codigo: "1001", Periodo: "202610", MateriaID: m.ID}, adminID)
	if err != nil {
		t.Fatalf("create nrc: %v", err)
	}
	if n.Materia == nil || n.Materia.Codigo != "A1" {
		t.Errorf("expected materia preloaded, got %+v", n.Materia)
	}
}

func TestNrc_ProfesorMustHoldRole(t *testing.T) {
	f := authSetup(t)
	svc := NewCatalogService(f.db)
	ctx := context.Background()

	jurado := f.register(t, "jurado@uninorte.edu.co", models.RoleJurado)
	profesor := f.register(t, "profe@uninorte.edu.co", models.RoleProfesor)
	m, _ := svc.CreateMateria(ctx, CreateMateriaInput{Codigo: "A1", Nombre: "A"}, adminID)

	_, err := svc.CreateNrc(ctx, CreateNrcInput{Codigo: "1", MateriaID: m.ID, ProfesorID: uintPtr(jurado.ID)}, adminID)
	wantValidation(t, err)

	_, err = svc.CreateNrc(ctx, CreateNrcInput{Codigo: "1", MateriaID: m.ID, ProfesorID: uintPtr(4242)}, adminID)
	wantValidation(t, err)

	n, err := svc.CreateNrc(ctx, CreateNrcInput{Codigo: "1", MateriaID: m.ID, ProfesorID: uintPtr(profesor.ID)}, adminID)
	if err != nil {
		t.Fatalf("create nrc with profesor: %v", err)
	}
	if n.ProfesorID == nil || *n.ProfesorID != profesor.ID {
		t.Errorf("profesor_id = %v, want %d", n.ProfesorID, profesor.ID)
	}
}

// --- Videojuegos ---

func TestVideojuego_Validation(t *testing.T) {
	svc, _ := catalogSetup(t)
	ctx := context.Background()

	_, err := svc.CreateVideojuego(ctx, CreateVideojuegoInput{Nombre: "FIFA", MaxJugadores: 0}, adminID)
	wantValidation(t, err)

	g := mustGame(t, svc, "FIFA", 2)
	_, err = svc.CreateVideojuego(ctx, CreateVideojuegoInput{Nombre: "FIFA", MaxJugadores: 4}, adminID)
	wantConflict(t, err)

	updated, err := svc.UpdateVideojuego(ctx, g.ID, UpdateVideojuegoInput{MaxJugadores: intPtr(5)}, adminID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MaxJugadores != 5 {
		t.Errorf("max_jugadores = %d, want 5", updated.MaxJugadores)
	}
}

func TestVideojuego_CannotShrinkBelowTeamSize(t *testing.T) {
	svc, _ := catalogSetup(t)
	ctx := context.Background()

	g := mustGame(t, svc, "Rocket League", 3)
	a := mustStudent(t, svc, "a@uninorte.edu.co")
	b := mustStudent(t, svc, "b@uninorte.edu.co")
	if _, err := svc.CreateEquipo(ctx, CreateEquipoInput{Nombre: "Los Pibes", VideojuegoID: g.ID, IntegranteIDs: []uint{a.ID, b.ID}}, adminID); err != nil {
		t.Fatalf("create equipo: %v", err)
	}

	_, err := svc.UpdateVideojuego(ctx, g.ID, UpdateVideojuegoInput{MaxJugadores: intPtr(1)}, adminID)
	wantValidation(t, err)

	wantConflict(t, svc.DeleteVideojuego(ctx, g.ID, adminID))
}

// --- Equipos ---

func TestEquipo_CapacityAndMembership(t *testing.T) {
	svc, _ := catalogSetup(t)
	ctx := context.Background()

	g := mustGame(t, svc, "Tekken", 2)
	a := mustStudent(t, svc, "a@uninorte.edu.co")
	b := mustStudent(t, svc, "b@uninorte.edu.co")
	c := mustStudent(t, svc, "c@uninorte.edu.co")

	_, err := svc.CreateEquipo(ctx, CreateEquipoInput{Nombre: "Grande", VideojuegoID: g.ID, IntegranteIDs: []uint{a.ID, b.ID, c.ID}}, adminID)
	wantValidation(t, err)

	_, err = svc.CreateEquipo(ctx, CreateEquipoInput{Nombre: "Rep", VideojuegoID: g.ID, IntegranteIDs: []uint{a.ID, a.ID}}, adminID)
	wantValidation(t, err)

	_, err = svc.CreateEquipo(ctx, CreateEquipoInput{Nombre: "Sin juego", VideojuegoID: 77}, adminID)
	wantValidation(t, err)

	team, err := svc.CreateEquipo(ctx, CreateEquipoInput{Nombre: "Uno", VideojuegoID: g.ID, IntegranteIDs: []uint{a.ID, b.ID}}, adminID)
	if err != nil {
		t.Fatalf("create equipo: %v", err)
	}
	if len(team.Integrantes) != 2 || team.Videojuego == nil {
		t.Fatalf("expected 2 members and game preloaded, got %+v", team)
	}

	// a already plays for "Uno"
	_, err = svc.CreateEquipo(ctx, CreateEquipoInput{Nombre: "Dos", VideojuegoID: g.ID, IntegranteIDs: []uint{a.ID}}, adminID)
	wantConflict(t, err)

	// Full team rejects a third member
	_, err = svc.UpdateEstudiante(ctx, c.ID, UpdateEstudianteInput{EquipoID: uintPtr(team.ID)}, adminID)
	wantValidation(t, err)
}

func TestEquipo_ReplaceMembersAndDelete(t *testing.T) {
	svc, _ := catalogSetup(t)
	ctx := context.Background()

	g := mustGame(t, svc, "Tekken", 2)
	a := mustStudent(t, svc, "a@uninorte.edu.co")
	b := mustStudent(t, svc, "b@uninorte.edu.co")
	c := mustStudent(t, svc, "c@uninorte.edu.co")

	team, err := svc.CreateEquipo(ctx, CreateEquipoInput{Nombre: "Uno", VideojuegoID: g.ID, IntegranteIDs: []uint{a.ID, b.ID}}, adminID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	members := []uint{b.ID, c.ID}
	team, err = svc.UpdateEquipo(ctx, team.ID, UpdateEquipoInput{IntegranteIDs: &members}, adminID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got := map[uint]bool{}
	for _, m := range team.Integrantes {
		got[m.ID] = true
	}
	if len(got) != 2 || !got[b.ID] || !got[c.ID] {
		t.Errorf("members = %v, want b and c", got)
	}
	if st, _ := svc.GetEstudiante(ctx, a.ID); st.EquipoID != nil {
		t.Errorf("a should have been released, equipo_id = %v", *st.EquipoID)
	}

	if err := svc.DeleteEquipo(ctx, team.ID, adminID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	free, err := svc.ListEstudiantes(ctx, EstudianteFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, st := range free {
		if st.EquipoID != nil {
			t.Errorf("student %d still on deleted team", st.ID)
		}
	}
}

// --- Estudiantes ---

func TestEstudiante_EmailUniqueCaseInsensitive(t *testing.T) {
	svc, _ := catalogSetup(t)
	ctx := context.Background()

	mustStudent(t, svc, "Ana@uninorte.edu.co")
	_, err := svc.CreateEstudiante(ctx, CreateEstudianteInput{NombreCompleto: "Otra", Email: "ana@UNINORTE.edu.co"}, adminID)
	wantConflict(t, err)
}

func TestEstudiante_FilterAndDelete(t *testing.T) {
	svc, _ := catalogSetup(t)
	ctx := context.Background()

	m, _ := svc.CreateMateria(ctx, CreateMateriaInput{Codigo: "A1", Nombre: "A"}, adminID)
	n, _ := svc.CreateNrc(ctx, CreateNrcInput{Codigo: "1", MateriaID: m.ID}, adminID)

	in, err := svc.CreateEstudiante(ctx, CreateEstudianteInput{NombreCompleto: "En NRC", Email: "x@uninorte.edu.co", NrcID: uintPtr(n.ID)}, adminID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	mustStudent(t, svc, "y@uninorte.edu.co")

	list, _ := svc.ListEstudiantes(ctx, EstudianteFilter{NrcID: n.ID})
	if len(list) != 1 || list[0].ID != in.ID {
		t.Errorf("filter by nrc = %+v", list)
	}

	_, err = svc.CreateEstudiante(ctx, CreateEstudianteInput{NombreCompleto: "Z", Email: "z@uninorte.edu.co", NrcID: uintPtr(999)}, adminID)
	wantValidation(t, err)

	if err := svc.DeleteEstudiante(ctx, in.ID, adminID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = svc.ListEstudiantes(ctx, EstudianteFilter{})
	if len(list) != 1 {
		t.Errorf("expected 1 active student, got %d", len(list))
	}
	if _, err := svc.UpdateEstudiante(ctx, in.ID, UpdateEstudianteInput{Codigo: strPtr("200")}, adminID); !errors.Is(err, ErrNotFound) {
		t.Errorf("update deleted: expected ErrNotFound, got %v", err)
	}
}
