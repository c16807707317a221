package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	flashStatusUpdated = "Status updated."
	flashNotPermitted  = "Action not permitted."
)

// Flash is a one-shot message for the page the client returns to.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// StatusUpdateResponse is returned for every status change attempt on an
// existing request, permitted or not.
type StatusUpdateResponse struct {
	OK       bool                   `json:"ok"`
	Flash    Flash                  `json:"flash"`
	Redirect string                 `json:"redirect"`
	Request  *models.ServiceRequest `json:"request"`
}

// GetRequestCatalog handles GET /api/requests/new?skill=<id>
// @Summary Skills available to request
// @Description Skills offered by other users, with the pre-selected skill when skill names one of them
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param skill query int false "Pre-selected skill id"
// @Success 200 {object} service.SkillCatalog
// @Router /requests/new [get]
func (s *Server) GetRequestCatalog(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	preselect := c.QueryInt("skill", 0)
	if preselect < 0 {
		preselect = 0
	}

	catalog, err := s.skillService.Catalog(c.UserContext(), userID, uint(preselect))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(catalog)
}

// CreateRequest handles POST /api/requests
// @Summary Request a skill
// @Description The provider is the owner of the offered skill. Requesting one's own skill is rejected.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param skill query int false "Skill id used when the body omits offered_skill"
// @Param request body service.CreateRequestInput true "Request"
// @Success 201 {object} models.ServiceRequest
// @Failure 400 {object} models.ErrorResponse
// @Router /requests [post]
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var in service.CreateRequestInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	if in.OfferedSkillID == 0 {
		if skill := c.QueryInt("skill", 0); skill > 0 {
			in.OfferedSkillID = uint(skill)
		}
	}

	req, err := s.requestService.Create(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}

	s.publishUserEvent(c.UserContext(), req.ProviderID, EventRequestCreated, requestSummary(req))

	return c.Status(fiber.StatusCreated).JSON(req)
}

// ListMyRequests handles GET /api/requests
func (s *Server) ListMyRequests(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	reqs, err := s.requestService.ListAsRequester(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reqs)
}

// ListMyOffers handles GET /api/offers
func (s *Server) ListMyOffers(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	reqs, err := s.requestService.ListAsProvider(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reqs)
}

// GetRequest handles GET /api/requests/:id. Only the two parties may read it.
func (s *Server) GetRequest(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	req, err := s.requestService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !req.IsParty(userID) {
		return respondError(c, models.NewForbiddenError("You are not a party to this request"))
	}
	return c.JSON(req)
}

// UpdateRequestStatus handles POST /api/requests/:id/status
// @Summary Accept, complete or cancel a request
// @Description Always 200 for an existing request. A transition the caller may not make, or one that lost a race, reports an error flash and leaves the request unchanged.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request id"
// @Param request body object{action=string,next=string} true "accept, complete or cancel"
// @Success 200 {object} StatusUpdateResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /requests/{id}/status [post]
func (s *Server) UpdateRequestStatus(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body struct {
		Action string `json:"action" form:"action"`
		Next   string `json:"next" form:"next"`
	}
	if err := parseBody(c, &body); err != nil {
		return nil
	}

	res, err := s.requestService.Transition(c.UserContext(), userID, id, body.Action)
	if err != nil {
		return respondError(c, err)
	}

	resp := StatusUpdateResponse{
		OK:       res.Applied,
		Flash:    Flash{Level: "error", Message: flashNotPermitted},
		Redirect: redirectTarget(c, body.Next),
		Request:  res.Request,
	}
	if res.Applied {
		resp.Flash = Flash{Level: "success", Message: flashStatusUpdated}

		event := requestSummary(res.Request)
		event["previous_status"] = res.Previous
		for _, party := range []uint{res.Request.RequesterID, res.Request.ProviderID} {
			s.publishUserEvent(c.UserContext(), party, EventRequestStatusChanged, event)
		}
	}

	return c.JSON(resp)
}

// redirectTarget is next when given, else the Referer, else the feed.
func redirectTarget(c *fiber.Ctx, next string) string {
	if next != "" {
		return next
	}
	if ref := c.Get(fiber.HeaderReferer); ref != "" {
		return ref
	}
	return "/"
}
