package agent

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/easelgate/easelgate/pkg/enforce"
	"github.com/easelgate/easelgate/pkg/models"
	"github.com/easelgate/easelgate/pkg/policy"
	"github.com/easelgate/easelgate/pkg/surface"
)

func (s *Server) currentRuleSet(c *gin.Context) (*surface.RuleSet, policy.Role) {
	ctx := c.Request.Context()
	role := s.store.EffectiveRole(ctx)
	if role == policy.RoleAdmin {
		return surface.NewRuleSet(), role
	}
	return enforce.ComputeRuleSet(s.store.PolicyMap(ctx), role), role
}

// getRuleSet returns the suppression rule-set for the effective role.
// @Summary       Current suppression rule-set
// @Description   Returns the rule-set the enforcement engine computes for the effective role, as structured JSON
// @Tags          ruleset
// @Produce       application/json
// @Success       200  {object}  models.RuleSetResponse
// @Router        /api/v1alpha1/ruleset [get]
func (s *Server) getRuleSet(c *gin.Context) {
	_, span := s.tracer.Start(c.Request.Context(), "Server.getRuleSet")
	defer span.End()

	rs, role := s.currentRuleSet(c)
	span.SetAttributes(
		attribute.String("ruleset.role", string(role)),
		attribute.Int("ruleset.rules", rs.Len()),
	)

	locators := make([]string, 0, rs.Len())
	for _, l := range rs.Locators() {
		locators = append(locators, string(l))
	}

	c.JSON(http.StatusOK, models.RuleSetResponse{
		ID:       surface.RuleSetID,
		Role:     string(role),
		Locators: locators,
	})
}

// getRuleSetCSS returns the rule-set as an injectable stylesheet.
// @Summary       Current suppression stylesheet
// @Description   Returns the rule-set rendered as CSS, ready for direct injection into the editor page
// @Tags          ruleset
// @Produce       text/css
// @Success       200  {string}  string  "text/css stylesheet, empty for admins"
// @Router        /api/v1alpha1/ruleset.css [get]
func (s *Server) getRuleSetCSS(c *gin.Context) {
	_, span := s.tracer.Start(c.Request.Context(), "Server.getRuleSetCSS")
	defer span.End()

	rs, _ := s.currentRuleSet(c)
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(rs.CSS()))
}

// getLockout returns the progressive-lockout state.
// @Summary       Lockout window status
// @Description   Returns the failed-attempt count and, while locked, the remaining wait
// @Tags          lockout
// @Produce       application/json
// @Success       200  {object}  models.LockoutStatus
// @Router        /api/v1alpha1/lockout [get]
func (s *Server) getLockout(c *gin.Context) {
	_, span := s.tracer.Start(c.Request.Context(), "Server.getLockout")
	defer span.End()

	remaining := s.ctrl.Remaining()
	c.JSON(http.StatusOK, models.LockoutStatus{
		FailedAttempts:   s.ctrl.FailedCount(),
		RemainingSeconds: int(remaining.Seconds()),
		Locked:           remaining > 0,
		WaitMessage:      s.ctrl.WaitMessage(),
	})
}

// getWhoAmI returns the cached identity and effective capability decisions.
// @Summary       Effective identity and capabilities
// @Description   Returns the cached user, the resolved role, and the decision for every catalog capability
// @Tags          identity
// @Produce       application/json
// @Success       200  {object}  models.WhoAmIResponse
// @Router        /api/v1alpha1/whoami [get]
func (s *Server) getWhoAmI(c *gin.Context) {
	ctx, span := s.tracer.Start(c.Request.Context(), "Server.getWhoAmI")
	defer span.End()

	user := s.store.CurrentUser(ctx)
	role := s.store.EffectiveRole(ctx)
	pm := s.store.PolicyMap(ctx)

	caps := make(map[string]bool, len(policy.Catalog()))
	for _, key := range policy.Catalog() {
		caps[string(key)] = pm.Allows(role, key)
	}

	span.SetAttributes(attribute.String("whoami.role", string(role)))
	c.JSON(http.StatusOK, models.WhoAmIResponse{
		User:         user,
		Role:         string(role),
		Capabilities: caps,
	})
}
