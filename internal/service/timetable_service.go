package service

import (
	"context"
	"database/sql"
	"math/rand"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/uniplan/timetable-api/internal/dto"
	"github.com/uniplan/timetable-api/internal/engine"
	"github.com/uniplan/timetable-api/internal/models"
	appErrors "github.com/uniplan/timetable-api/pkg/errors"
)

type doctorStore interface {
	List(ctx context.Context) ([]models.Doctor, error)
	UpdateAssignedMinutes(ctx context.Context, exec sqlx.ExtContext, id string, minutes int) error
	ResetAssignedMinutes(ctx context.Context, exec sqlx.ExtContext) error
}

type courseStore interface {
	List(ctx context.Context) ([]models.Course, error)
}

type sectionStore interface {
	List(ctx context.Context) ([]models.Section, error)
	SetScheduled(ctx context.Context, exec sqlx.ExtContext, id string, scheduled bool) error
	ResetScheduled(ctx context.Context, exec sqlx.ExtContext) error
}

type roomStore interface {
	List(ctx context.Context) ([]models.Room, error)
}

type lectureStore interface {
	List(ctx context.Context) ([]models.ScheduledLecture, error)
	ReplaceAll(ctx context.Context, tx *sqlx.Tx, lectures []models.ScheduledLecture) error
	UpdatePlacement(ctx context.Context, exec sqlx.ExtContext, lec models.ScheduledLecture) error
	DeleteAll(ctx context.Context, exec sqlx.ExtContext) error
}

type snapshotStore interface {
	Save(ctx context.Context, snapshot *models.TimetableSnapshot) error
	Load(ctx context.Context) (*models.TimetableSnapshot, error)
	Delete(ctx context.Context) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// TimetableConfig governs placement behaviour.
type TimetableConfig struct {
	Grid engine.GridConfig
	Seed int64
}

// TimetableService owns the scheduling state for the process: it runs
// placement passes, answers relocation proposals against the live state, and
// persists results. A mutex serializes runs and relocations; the engine
// state is never shared between concurrent operations.
type TimetableService struct {
	doctors   doctorStore
	courses   courseStore
	sections  sectionStore
	rooms     roomStore
	lectures  lectureStore
	snapshots snapshotStore
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	grid      engine.Grid
	seed      int64

	mu            sync.Mutex
	state         *engine.State
	engineDoctors []engine.Doctor
	engineRooms   []engine.Room
}

// NewTimetableService wires the scheduling dependencies.
func NewTimetableService(
	doctors doctorStore,
	courses courseStore,
	sections sectionStore,
	rooms roomStore,
	lectures lectureStore,
	snapshots snapshotStore,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		doctors:   doctors,
		courses:   courses,
		sections:  sections,
		rooms:     rooms,
		lectures:  lectures,
		snapshots: snapshots,
		tx:        tx,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		grid:      engine.NewGrid(cfg.Grid),
		seed:      cfg.Seed,
	}
}

// Generate runs a full placement pass: load entities, place every lecture
// unit, commit the resulting timetable and entity write-backs, and store the
// snapshot. Unplaceable units end up in the report, never as errors.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doctorRows, courseRows, sectionRows, roomRows, err := s.loadEntities(ctx)
	if err != nil {
		return nil, err
	}

	input := engine.Input{}
	for _, d := range doctorRows {
		input.Doctors = append(input.Doctors, doctorToEngine(s.grid, d, s.logger))
	}
	for _, c := range courseRows {
		input.Courses = append(input.Courses, courseToEngine(c))
	}
	for _, sec := range sectionRows {
		input.Sections = append(input.Sections, sectionToEngine(sec))
	}
	for _, r := range roomRows {
		input.Rooms = append(input.Rooms, roomToEngine(r, s.logger))
	}

	seed := s.seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	result := engine.New(s.grid, rng, s.logger).Place(input)

	rows := make([]models.ScheduledLecture, 0, len(result.Lectures))
	for _, lec := range result.Lectures {
		rows = append(rows, lectureToModel(lec))
	}

	if err := s.commitRun(ctx, rows, result); err != nil {
		return nil, err
	}

	s.state = result.State
	s.engineDoctors = input.Doctors
	s.engineRooms = input.Rooms

	runID := uuid.NewString()
	generatedAt := time.Now().UTC()
	snapshot := &models.TimetableSnapshot{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Seed:        seed,
		Lectures:    rows,
		Report: models.RunReport{
			ScheduledCount: result.Report.ScheduledCount,
			FailedCount:    result.Report.FailedCount,
			Unscheduled:    result.Report.Unscheduled,
		},
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		// The committed schedule stays valid; the snapshot can be rebuilt on
		// the next run.
		s.logger.Warn("failed to save timetable snapshot", zap.Error(err))
	}

	if s.metrics != nil {
		s.metrics.RecordRun(result.Report.ScheduledCount, result.Report.FailedCount)
	}
	s.logger.Info("placement run finished",
		zap.String("run_id", runID),
		zap.Int64("seed", seed),
		zap.Int("scheduled", result.Report.ScheduledCount),
		zap.Int("failed", result.Report.FailedCount))

	idx := newNameIndex(doctorRows, courseRows, sectionRows, roomRows)
	resp := &dto.GenerateTimetableResponse{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Seed:        seed,
		Report: dto.RunReport{
			ScheduledCount: result.Report.ScheduledCount,
			FailedCount:    result.Report.FailedCount,
			Unscheduled:    result.Report.Unscheduled,
		},
		Lectures: make([]dto.LectureView, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Lectures = append(resp.Lectures, idx.view(row))
	}
	return resp, nil
}

// Move proposes relocating one placed lecture to a new (doctor, day, start)
// cell. A rejected move returns its reason without mutating any state.
func (s *TimetableService) Move(ctx context.Context, req dto.MoveLectureRequest) (*dto.MoveLectureResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	day, ok := dayToEngine(req.Day)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day name")
	}
	start, err := models.ParseClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be HH:MM")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		if err := s.restore(ctx); err != nil {
			return nil, err
		}
	}

	selected, exists := s.state.Lectures[req.LectureID]
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture is not placed")
	}
	previousDoctor := selected.DoctorID

	relocator := engine.NewRelocator(s.state, s.engineDoctors, s.engineRooms, s.logger)
	if err := relocator.Select(req.LectureID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture is not placed")
	}
	outcome := relocator.Propose(engine.MoveTarget{DoctorID: req.DoctorID, Day: day, Start: start})

	if s.metrics != nil {
		s.metrics.RecordRelocation(outcome.Accepted)
	}

	if !outcome.Accepted {
		return &dto.MoveLectureResponse{
			Accepted: false,
			Reason:   string(outcome.Reason),
			Message:  outcome.Message,
		}, nil
	}

	if err := s.commitMove(ctx, previousDoctor, outcome.Lecture); err != nil {
		return nil, err
	}
	s.refreshSnapshot(ctx)

	view := s.resolveView(ctx, lectureToModel(*outcome.Lecture))
	return &dto.MoveLectureResponse{Accepted: true, Lecture: &view}, nil
}

// Timetable returns the latest committed timetable, preferring the snapshot
// and falling back to the relational rows when no snapshot exists.
func (s *TimetableService) Timetable(ctx context.Context) (*dto.TimetableResponse, error) {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load timetable snapshot, falling back to database", zap.Error(err))
		snapshot = nil
	}

	var rows []models.ScheduledLecture
	resp := &dto.TimetableResponse{Lectures: []dto.LectureView{}}
	if snapshot != nil {
		rows = snapshot.Lectures
		resp.RunID = snapshot.RunID
		at := snapshot.GeneratedAt
		resp.GeneratedAt = &at
	} else {
		rows, err = s.lectures.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
		}
	}

	idx, err := s.loadNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		resp.Lectures = append(resp.Lectures, idx.view(row))
	}
	return resp, nil
}

// Report returns the report of the most recent placement run.
func (s *TimetableService) Report(ctx context.Context) (*dto.RunReport, error) {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load run report")
	}
	if snapshot == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no placement run recorded")
	}
	return &dto.RunReport{
		ScheduledCount: snapshot.Report.ScheduledCount,
		FailedCount:    snapshot.Report.FailedCount,
		Unscheduled:    snapshot.Report.Unscheduled,
	}, nil
}

// Clear resets the schedule: committed lectures are removed, doctor loads and
// section flags are zeroed, and the snapshot is dropped.
func (s *TimetableService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.lectures.DeleteAll(ctx, tx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to clear lectures")
	}
	if err = s.doctors.ResetAssignedMinutes(ctx, tx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to reset doctor loads")
	}
	if err = s.sections.ResetScheduled(ctx, tx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to reset sections")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to commit clear")
	}

	if err := s.snapshots.Delete(ctx); err != nil {
		s.logger.Warn("failed to delete timetable snapshot", zap.Error(err))
	}

	s.state = nil
	s.engineDoctors = nil
	s.engineRooms = nil
	s.logger.Info("schedule cleared")
	return nil
}

func (s *TimetableService) loadEntities(ctx context.Context) ([]models.Doctor, []models.Course, []models.Section, []models.Room, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load doctors")
	}
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	sections, err := s.sections.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	return doctors, courses, sections, rooms, nil
}

// commitRun persists one placement run transactionally: the timetable rows
// plus the per-doctor and per-section write-back deltas.
func (s *TimetableService) commitRun(ctx context.Context, rows []models.ScheduledLecture, result *engine.Result) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.lectures.ReplaceAll(ctx, tx, rows); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist timetable")
	}
	for id, minutes := range result.AssignedMinutes {
		if err = s.doctors.UpdateAssignedMinutes(ctx, tx, id, minutes); err != nil {
			return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to write back doctor load")
		}
	}
	for id, scheduled := range result.SectionScheduled {
		if err = s.sections.SetScheduled(ctx, tx, id, scheduled); err != nil {
			return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to write back section flag")
		}
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to commit placement run")
	}
	return nil
}

// commitMove persists a committed relocation: the lecture's new cell and the
// assigned-minute deltas of the doctors involved.
func (s *TimetableService) commitMove(ctx context.Context, previousDoctor string, moved *engine.ScheduledLecture) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.lectures.UpdatePlacement(ctx, tx, lectureToModel(*moved)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist relocation")
	}
	if err = s.doctors.UpdateAssignedMinutes(ctx, tx, moved.DoctorID, s.state.Assigned[moved.DoctorID]); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to write back doctor load")
	}
	if previousDoctor != moved.DoctorID {
		if err = s.doctors.UpdateAssignedMinutes(ctx, tx, previousDoctor, s.state.Assigned[previousDoctor]); err != nil {
			return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to write back doctor load")
		}
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to commit relocation")
	}
	return nil
}

// restore rebuilds the live engine state from persisted rows, used when a
// relocation arrives before any run in this process.
func (s *TimetableService) restore(ctx context.Context) error {
	doctorRows, _, _, roomRows, err := s.loadEntities(ctx)
	if err != nil {
		return err
	}
	lectureRows, err := s.lectures.List(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lectures")
	}

	s.engineDoctors = nil
	s.engineRooms = nil
	for _, d := range doctorRows {
		s.engineDoctors = append(s.engineDoctors, doctorToEngine(s.grid, d, s.logger))
	}
	for _, r := range roomRows {
		s.engineRooms = append(s.engineRooms, roomToEngine(r, s.logger))
	}

	state := engine.NewState(s.grid, s.engineDoctors, s.engineRooms)
	for _, row := range lectureRows {
		lec, ok := lectureFromModel(s.grid, row)
		if !ok {
			s.logger.Warn("persisted lecture has unknown day, skipping",
				zap.String("lecture", row.ID), zap.String("day", row.DayOfWeek))
			continue
		}
		state.Apply(&lec)
	}
	s.state = state
	return nil
}

// refreshSnapshot rewrites the snapshot after a committed relocation.
func (s *TimetableService) refreshSnapshot(ctx context.Context) {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil || snapshot == nil {
		return
	}
	rows := make([]models.ScheduledLecture, 0, len(s.state.Lectures))
	for _, lec := range s.state.Lectures {
		rows = append(rows, lectureToModel(*lec))
	}
	snapshot.Lectures = rows
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		s.logger.Warn("failed to refresh timetable snapshot", zap.Error(err))
	}
}

func (s *TimetableService) loadNameIndex(ctx context.Context) (nameIndex, error) {
	doctors, courses, sections, rooms, err := s.loadEntities(ctx)
	if err != nil {
		return nameIndex{}, err
	}
	return newNameIndex(doctors, courses, sections, rooms), nil
}

func (s *TimetableService) resolveView(ctx context.Context, row models.ScheduledLecture) dto.LectureView {
	idx, err := s.loadNameIndex(ctx)
	if err != nil {
		// Names are cosmetic; fall back to bare IDs.
		idx = newNameIndex(nil, nil, nil, nil)
	}
	return idx.view(row)
}
