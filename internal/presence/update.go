package presence

import (
	"context"
	"fmt"

	"github.com/ehrlich-b/tabrelay/internal/discord"
)

// StatusText is the state line shown for count.
func StatusText(count uint32) string {
	return fmt.Sprintf("%d tabs open", count)
}

// ActivityFor builds the custom activity for count. Everything else stays unset.
func ActivityFor(count uint32) discord.ActivityArgs {
	return discord.ActivityArgs{
		Activity: &discord.Activity{
			State: StatusText(count),
			Type:  discord.ActivityCustom,
		},
	}
}

// Update sends one activity update and waits for its reply. Counts are never
// coalesced: each call is one round trip.
func Update(ctx context.Context, conn Conn, count uint32) error {
	if err := conn.UpdateActivity(ctx, ActivityFor(count)); err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}
