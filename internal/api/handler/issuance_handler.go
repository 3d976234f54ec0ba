package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursedesk/credits-system/internal/core/ports"
)

// IssuanceHandler handles HTTP requests for the certification issuance
// workflow.
type IssuanceHandler struct {
	service ports.IssuanceService
}

func NewIssuanceHandler(service ports.IssuanceService) *IssuanceHandler {
	return &IssuanceHandler{service: service}
}

// Submit handles POST /v1/issuances.
//
// @Summary      Submit a class for certification issuance
// @Tags         issuances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Idempotency key to prevent double issuance on retry"
// @Param        body             body      submitIssuanceRequest  true   "Class submission"
// @Success      201              {object}  submitIssuanceResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse  "insufficient credits"
// @Failure      422              {object}  errorResponse  "lists every missing field"
// @Router       /v1/issuances [post]
func (h *IssuanceHandler) Submit(c echo.Context) error {
	userID, email, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req submitIssuanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	students := make([]ports.StudentInput, 0, len(req.Students))
	for _, st := range req.Students {
		students = append(students, ports.StudentInput{
			FirstName: st.FirstName,
			LastName:  st.LastName,
			Email:     st.Email,
		})
	}

	result, err := h.service.Submit(c.Request().Context(), ports.SubmitIssuanceInput{
		Program:             req.Program,
		Site:                req.Site,
		ClassType:           req.ClassType,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		PrimaryInstructor:   req.PrimaryInstructor,
		SecondaryInstructor: req.SecondaryInstructor,
		OpenEnrollment:      req.OpenEnrollment,
		Students:            students,
		OwnerID:             userID,
		SubmittedBy:         email,
		IdempotencyKey:      c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, submitIssuanceResponse{
		GroupID:       result.GroupID,
		ClassID:       result.ClassID,
		CreditsUsed:   result.CreditsUsed,
		StudentsCount: result.StudentsCount,
	})
}

// Get handles GET /v1/issuances/:group_id.
//
// @Summary      Get an issuance group and its student records
// @Tags         issuances
// @Produce      json
// @Security     BearerAuth
// @Param        group_id  path      string  true  "Group id (e.g. DC-...)"
// @Success      200       {object}  groupResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/issuances/{group_id} [get]
func (h *IssuanceHandler) Get(c echo.Context) error {
	detail, err := h.service.GetGroup(c.Request().Context(), c.Param("group_id"))
	if err != nil {
		return err
	}

	resp := groupResponse{
		GroupID:             detail.Group.GroupID,
		ClassID:             detail.Group.ClassID,
		Program:             detail.Group.Program,
		Site:                detail.Group.Site,
		ClassType:           detail.Group.ClassType,
		StartDate:           detail.Group.StartDate,
		EndDate:             detail.Group.EndDate,
		PrimaryInstructor:   detail.Group.PrimaryInstructor,
		SecondaryInstructor: detail.Group.SecondaryInstructor,
		OpenEnrollment:      detail.Group.OpenEnrollment,
		IsLocked:            detail.Group.IsLocked,
		CreditsUsed:         detail.Group.CreditsUsed,
		SubmittedBy:         detail.Group.SubmittedBy,
		CreatedAt:           detail.Group.CreatedAt,
		Students:            make([]issuedRecordResponse, 0, len(detail.Records)),
	}
	for _, r := range detail.Records {
		resp.Students = append(resp.Students, issuedRecordResponse{
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			Email:          r.Email,
			CertificateRef: r.CertificateRef,
			CreatedAt:      r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
