package lifecycle

import (
	"context"
	"fmt"

	"github.com/melih/grf/internal/core/domain"
)

// reloadCommand kills the plugin process; Grafana's plugin supervisor
// restarts it from the freshly built binary. The full command line is
// matched because the executable name does not mention "datasource", only
// its plugin directory does.
var reloadCommand = []string{"pkill", "-f", "datasource"}

// pkill exits with 1 when no process matched.
const pkillNoMatch = 1

// ReloadPlugins restarts data source plugin processes in every running
// Grafana container. Output of the kill is discarded; stream errors and
// unexpected exit codes are only logged.
func (c *Controller) ReloadPlugins(ctx context.Context) error {
	containers, err := c.FindContainers(ctx, domain.AnyWithBaseName())
	if err != nil {
		return err
	}

	for _, ctr := range containers {
		c.reporter.Infof("reloading plugins in %s - %s...", ctr.Image, ctr.ShortID())

		exec, err := c.runtime.Exec(ctx, ctr.ID, reloadCommand)
		if err != nil {
			return fmt.Errorf("%w: exec in %s (%s): %w", domain.ErrRuntimeOperation, ctr.ShortID(), ctr.Image, err)
		}

		for _, err := range exec.Output {
			if err != nil {
				c.logger.Warn("reload exec stream error", "containerID", ctr.ShortID(), "error", err)
			}
		}

		code, err := c.runtime.ExecExitCode(ctx, exec.ID)
		switch {
		case err != nil:
			c.logger.Warn("reload exit code unknown", "containerID", ctr.ShortID(), "error", err)
		case code == pkillNoMatch:
			c.logger.Warn("no plugin process matched", "containerID", ctr.ShortID(), "pattern", reloadCommand[len(reloadCommand)-1])
			c.reporter.Infof("no running data source plugin in %s", ctr.ShortID())
		case code != 0:
			c.logger.Warn("reload command failed", "containerID", ctr.ShortID(), "exitCode", code)
		}
	}
	return nil
}
