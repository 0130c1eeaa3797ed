package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nivschuman/ElectionLifecycle/internal/clock"
	"github.com/nivschuman/ElectionLifecycle/internal/lifecycle"
	models "github.com/nivschuman/ElectionLifecycle/internal/models"
	"github.com/nivschuman/ElectionLifecycle/internal/registry"
	"github.com/nivschuman/ElectionLifecycle/internal/store"
	"github.com/nivschuman/ElectionLifecycle/internal/winners"
)

// HTTPHandler exposes the election operations over JSON.
type HTTPHandler struct {
	registry *registry.Registry
	store    *store.Store
	machine  *lifecycle.StateMachine
	engine   *winners.Engine
	clock    clock.Clock
}

func NewHTTPHandler(registry *registry.Registry, store *store.Store, machine *lifecycle.StateMachine, engine *winners.Engine, clk clock.Clock) *HTTPHandler {
	return &HTTPHandler{
		registry: registry,
		store:    store,
		machine:  machine,
		engine:   engine,
		clock:    clk,
	}
}

type autoDeclareRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type scheduleRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type positionRequest struct {
	Name string `json:"name"`
}

func (h *HTTPHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/elections", h.ListElections)
	router.POST("/elections", h.CreateElection)
	router.GET("/elections/:id", h.GetElection)
	router.PUT("/elections/:id", h.UpdateElectionDetails)
	router.DELETE("/elections/:id", h.DeleteElection)
	router.PUT("/elections/:id/auto-declare", h.ToggleAutoDeclare)

	router.POST("/elections/:id/start", h.Start)
	router.POST("/elections/:id/restart", h.Restart)
	router.POST("/elections/:id/end", h.End)
	router.GET("/elections/:id/time-left", h.GetTimeLeft)
	router.GET("/elections/:id/view", h.GetView)

	router.GET("/elections/:id/positions", h.ListPositions)
	router.POST("/elections/:id/positions", h.AddPosition)
	router.DELETE("/elections/:id/positions/:positionId", h.DeletePosition)
	router.POST("/elections/:id/positions/:positionId/winner", h.DeclareWinner)
	router.GET("/elections/:id/results", h.Results)

	router.POST("/positions/:positionId/candidates", h.AddCandidate)
	router.PUT("/candidates/:candidateId", h.UpdateCandidate)
	router.DELETE("/candidates/:candidateId", h.DeleteCandidate)
}

func (h *HTTPHandler) ListElections(c *gin.Context) {
	elections, err := h.registry.ListElections()
	if err != nil {
		writeError(c, err)
		return
	}

	now := h.clock.Now()
	responses := make([]electionResponse, 0, len(elections))
	for _, election := range elections {
		responses = append(responses, newElectionResponse(election, now))
	}

	c.JSON(http.StatusOK, responses)
}

func (h *HTTPHandler) CreateElection(c *gin.Context) {
	var details models.ElectionDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		writeBindError(c, err)
		return
	}

	election, err := h.registry.CreateElection(details)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newElectionResponse(election, h.clock.Now()))
}

func (h *HTTPHandler) GetElection(c *gin.Context) {
	election, err := h.registry.GetElection(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newElectionResponse(election, h.clock.Now()))
}

func (h *HTTPHandler) UpdateElectionDetails(c *gin.Context) {
	var details models.ElectionDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		writeBindError(c, err)
		return
	}

	election, err := h.registry.UpdateElectionDetails(c.Param("id"), details)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newElectionResponse(election, h.clock.Now()))
}

func (h *HTTPHandler) DeleteElection(c *gin.Context) {
	if err := h.registry.DeleteElection(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) ToggleAutoDeclare(c *gin.Context) {
	var request autoDeclareRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		writeBindError(c, err)
		return
	}

	election, err := h.registry.ToggleAutoDeclare(c.Param("id"), *request.Enabled)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newElectionResponse(election, h.clock.Now()))
}

func (h *HTTPHandler) Start(c *gin.Context) {
	h.schedule(c, h.machine.Start)
}

func (h *HTTPHandler) Restart(c *gin.Context) {
	h.schedule(c, h.machine.Restart)
}

func (h *HTTPHandler) schedule(c *gin.Context, transition func(electionId string, startTime string, endTime string) (*models.Election, error)) {
	var request scheduleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		writeBindError(c, err)
		return
	}

	election, err := transition(c.Param("id"), request.StartTime, request.EndTime)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newElectionResponse(election, h.clock.Now()))
}

func (h *HTTPHandler) End(c *gin.Context) {
	election, err := h.machine.End(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newElectionResponse(election, h.clock.Now()))
}

func (h *HTTPHandler) GetTimeLeft(c *gin.Context) {
	timeLeft, err := h.machine.GetTimeLeft(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTimeLeftResponse(timeLeft))
}

func (h *HTTPHandler) GetView(c *gin.Context) {
	view, err := h.machine.GetView(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	election := newElectionResponse(view.Election, h.clock.Now())
	election.EffectiveStatus = string(view.EffectiveStatus)

	c.JSON(http.StatusOK, electionViewResponse{
		Election:  election,
		TimeLeft:  newTimeLeftResponse(view.TimeLeft),
		Positions: newPositionResponses(view.Positions),
	})
}

func (h *HTTPHandler) ListPositions(c *gin.Context) {
	positions, err := h.store.ListPositions(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPositionResponses(positions))
}

func (h *HTTPHandler) AddPosition(c *gin.Context) {
	var request positionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		writeBindError(c, err)
		return
	}

	position, err := h.store.AddPosition(c.Param("id"), request.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPositionResponse(position))
}

func (h *HTTPHandler) DeletePosition(c *gin.Context) {
	if err := h.store.DeletePosition(c.Param("id"), c.Param("positionId")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) AddCandidate(c *gin.Context) {
	var data models.CandidateData
	if err := c.ShouldBindJSON(&data); err != nil {
		writeBindError(c, err)
		return
	}

	candidate, err := h.store.AddCandidate(c.Param("positionId"), data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCandidateResponse(candidate))
}

func (h *HTTPHandler) UpdateCandidate(c *gin.Context) {
	var data models.CandidateData
	if err := c.ShouldBindJSON(&data); err != nil {
		writeBindError(c, err)
		return
	}

	candidate, err := h.store.UpdateCandidate(c.Param("candidateId"), data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCandidateResponse(candidate))
}

func (h *HTTPHandler) DeleteCandidate(c *gin.Context) {
	if err := h.store.DeleteCandidate(c.Param("candidateId")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) DeclareWinner(c *gin.Context) {
	winner, err := h.engine.DeclareWinner(c.Param("id"), c.Param("positionId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCandidateResponse(winner))
}

func (h *HTTPHandler) Results(c *gin.Context) {
	positions, err := h.engine.Results(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPositionResponses(positions))
}
