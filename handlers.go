package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var (
	appVersion string
)

// Server holds the dependencies shared by the route handlers.
type Server struct {
	catalogue *Catalogue
	store     *Store
	locations []Location
	today     func() time.Time
	secret    []byte
	ttl       time.Duration
}

func NewServer(c *Config, catalogue *Catalogue, store *Store, locations []Location) *Server {
	return &Server{
		catalogue: catalogue,
		store:     store,
		locations: locations,
		today:     c.clock(),
		secret:    sessionSecret(c),
		ttl:       time.Duration(c.SessionTTLHours) * time.Hour,
	}
}

type SessionRequest struct {
	PersonaId string `json:"personaId"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	PersonaId string    `json:"personaId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ConditionsRequest struct {
	Conditions map[string]Tristate `json:"conditions"`
}

type DateRequest struct {
	Date string `json:"date"`
}

type Question struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Question string `json:"question"`
}

type Confirmation struct {
	ProgrammeId string `json:"programmeId"`
	Name        string `json:"name"`
	Date        Date   `json:"date"`
	DisplayDate string `json:"displayDate"`
}

func heartbeat(c echo.Context) error {
	// Heartbeat function to assess service status. Immediately return 200
	return c.NoContent(http.StatusOK)
}

func (s *Server) version(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"name": appName, "version": appVersion})
}

func (s *Server) listProgrammes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalogue.All())
}

func (s *Server) getProgramme(c echo.Context) error {
	prog, err := s.catalogue.Get(c.Param("programmeId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, prog)
}

func (s *Server) listPersonas(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Personas())
}

// startSession opens a session viewing one of the fixture personas. An empty
// persona id picks the first persona.
func (s *Server) startSession(c echo.Context) error {
	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, ErrInvalidRequest)
	}

	personas := s.store.Personas()
	if len(personas) == 0 {
		return fail(c, ErrPersonNotFound)
	}
	if req.PersonaId == "" {
		req.PersonaId = personas[0].Id
	}

	found := false
	for _, p := range personas {
		if p.Id == req.PersonaId {
			found = true
			break
		}
	}
	if !found {
		return fail(c, ErrPersonNotFound)
	}

	sessionId := s.store.StartSession()
	return s.respondWithToken(c, http.StatusCreated, sessionId, req.PersonaId)
}

// createPersona adds a persona to the current session and switches the
// session to it.
func (s *Server) createPersona(c echo.Context) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return fail(c, err)
	}

	var person Person
	if err := c.Bind(&person); err != nil {
		return fail(c, ErrInvalidRequest)
	}

	created, err := s.store.CreatePersona(claims.SessionId, person)
	if err != nil {
		return fail(c, err)
	}
	return s.respondWithToken(c, http.StatusCreated, claims.SessionId, created.Id)
}

func (s *Server) respondWithToken(c echo.Context, status int, sessionId, personaId string) error {
	now := time.Now()
	token, err := issueToken(s.secret, s.ttl, sessionId, personaId, now)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(status, SessionResponse{
		Token:     token,
		PersonaId: personaId,
		ExpiresAt: now.Add(s.ttl),
	})
}

// healthChecks shows the grouped programmes for the session persona, or for
// one of their proxies when ?for= is set.
func (s *Server) healthChecks(c echo.Context) error {
	sessionId, ref, err := personRef(c)
	if err != nil {
		return fail(c, err)
	}

	person, err := s.store.Person(sessionId, ref)
	if err != nil {
		return fail(c, err)
	}

	ctx := c.Request().Context()
	today := s.today()
	report, results := buildReport(ctx, &person, s.catalogue, today)

	recordResults(results)
	sendEvaluationLog(ctx, ref, today, results)

	return c.JSON(http.StatusOK, report)
}

// questions lists the follow-up questions that would settle a programme's
// unknown conditions.
func (s *Server) questions(c echo.Context) error {
	prog, err := s.catalogue.Get(c.Param("programmeId"))
	if err != nil {
		return fail(c, err)
	}

	sessionId, ref, err := personRef(c)
	if err != nil {
		return fail(c, err)
	}
	person, err := s.store.Person(sessionId, ref)
	if err != nil {
		return fail(c, err)
	}

	questions := []Question{}
	for _, key := range unknownConditions(prog.Eligibility.Conditions, &person) {
		questions = append(questions, Question{
			Key:      key,
			Label:    conditionLabel(key),
			Question: conditionQuestion(key),
		})
	}
	return c.JSON(http.StatusOK, questions)
}

func (s *Server) answerConditions(c echo.Context) error {
	sessionId, ref, err := personRef(c)
	if err != nil {
		return fail(c, err)
	}

	var req ConditionsRequest
	if err := c.Bind(&req); err != nil || len(req.Conditions) == 0 {
		return fail(c, ErrInvalidRequest)
	}

	if err := s.store.AnswerConditions(sessionId, ref, req.Conditions); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) bookingLocations(c echo.Context) error {
	prog, err := s.catalogue.Get(c.Param("programmeId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, locationsFor(prog, s.locations))
}

func (s *Server) bookingAppointments(c echo.Context) error {
	if _, err := s.catalogue.Get(c.Param("programmeId")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, appointmentsFrom(s.today()))
}

// bookingConfirmed records the chosen appointment. The date is the display
// date from the appointment list and falls back to today.
func (s *Server) bookingConfirmed(c echo.Context) error {
	prog, err := s.catalogue.Get(c.Param("programmeId"))
	if err != nil {
		return fail(c, err)
	}

	sessionId, ref, err := personRef(c)
	if err != nil {
		return fail(c, err)
	}

	var req DateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, ErrInvalidRequest)
	}

	date := parseBookingDate(req.Date, s.today())
	if err := s.store.Book(sessionId, ref, prog.Id, date); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, Confirmation{
		ProgrammeId: prog.Id,
		Name:        prog.Name,
		Date:        date,
		DisplayDate: formatBookedDate(date.Time),
	})
}

// hadElsewhere records a programme given outside the service. The date must
// be a plain date no later than today.
func (s *Server) hadElsewhere(c echo.Context) error {
	sessionId, ref, err := personRef(c)
	if err != nil {
		return fail(c, err)
	}

	var req DateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, ErrInvalidRequest)
	}
	t, err := parseDate(req.Date)
	if err != nil || isAfterDay(t, s.today()) {
		return fail(c, ErrInvalidRequest)
	}

	if err := s.store.RecordElsewhere(sessionId, ref, c.Param("programmeId"), Date{toDate(t)}); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) optOut(c echo.Context) error {
	return s.simpleWrite(c, s.store.OptOut)
}

func (s *Server) optBackIn(c echo.Context) error {
	return s.simpleWrite(c, s.store.OptBackIn)
}

func (s *Server) cancel(c echo.Context) error {
	return s.simpleWrite(c, s.store.Cancel)
}

func (s *Server) simpleWrite(c echo.Context, write func(sessionId string, ref PersonRef, programmeId string) error) error {
	sessionId, ref, err := personRef(c)
	if err != nil {
		return fail(c, err)
	}
	if err := write(sessionId, ref, c.Param("programmeId")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// personRef resolves who a request is about from the session claims and the
// optional ?for= proxy id.
func personRef(c echo.Context) (string, PersonRef, error) {
	claims, err := sessionClaims(c)
	if err != nil {
		return "", PersonRef{}, err
	}
	return claims.SessionId, PersonRef{PersonId: claims.PersonaId, ProxyId: c.QueryParam("for")}, nil
}

// fail converts an error to an HTTP error, logging anything that is not the
// caller's fault.
func fail(c echo.Context, err error) error {
	he := httpError(err)
	if he.Code >= http.StatusInternalServerError {
		logger(c.Request().Context(), err)
	}
	return he
}
