package monitor

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/relay-run/relay/internal/flowerr"
	"github.com/relay-run/relay/internal/store"
)

const defaultRunLimit = 20

// statusView is the workspace-wide aggregate returned by /api/status.
type statusView struct {
	DataDir   string       `json:"data_dir"`
	Families  int          `json:"families"`
	Tasks     int          `json:"tasks"`
	Artifacts int          `json:"artifacts"`
	Bytes     int64        `json:"bytes"`
	LastRun   *lastRunView `json:"last_run,omitempty"`
}

type lastRunView struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Success   bool      `json:"success"`
	Failed    int       `json:"failed"`
	Completed int       `json:"completed"`
}

type familyView struct {
	store.FamilyInfo
	ArtifactList []store.ArtifactInfo `json:"artifact_list"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	families, err := s.ws.Families()
	if err != nil {
		serverError(c, err)
		return
	}
	view := statusView{DataDir: s.ws.Root(), Families: len(families)}
	for _, f := range families {
		view.Tasks += f.Tasks
		view.Artifacts += f.Artifacts
		view.Bytes += f.Bytes
	}
	runs, err := s.ws.ListRuns()
	if err != nil {
		serverError(c, err)
		return
	}
	if len(runs) > 0 {
		last := runs[0]
		view.LastRun = &lastRunView{
			ID:        last.ID,
			StartedAt: last.StartedAt,
			Success:   last.Success,
			Failed:    last.Failed,
			Completed: last.Completed,
		}
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) families(c *gin.Context) {
	families, err := s.ws.Families()
	if err != nil {
		serverError(c, err)
		return
	}
	if families == nil {
		families = []store.FamilyInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"families": families})
}

func (s *Server) family(c *gin.Context) {
	name := c.Param("family")
	families, err := s.ws.Families()
	if err != nil {
		serverError(c, err)
		return
	}
	for _, f := range families {
		if f.Name != name {
			continue
		}
		artifacts, err := s.ws.Artifacts(name)
		if err != nil {
			serverError(c, err)
			return
		}
		if artifacts == nil {
			artifacts = []store.ArtifactInfo{}
		}
		c.JSON(http.StatusOK, familyView{FamilyInfo: f, ArtifactList: artifacts})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown family " + name})
}

func (s *Server) runs(c *gin.Context) {
	limit := defaultRunLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	runs, err := s.ws.ListRuns()
	if err != nil {
		serverError(c, err)
		return
	}
	if len(runs) > limit {
		runs = runs[:limit]
	}
	if runs == nil {
		runs = []*store.RunRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) run(c *gin.Context) {
	rec, err := s.ws.GetRun(c.Param("id"))
	if err != nil {
		var fe *flowerr.FlowError
		if errors.As(err, &fe) && fe.Category == flowerr.ErrorCategoryHistory && fe.Code == flowerr.CodeHistoryNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": fe.Message})
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
