package service

import (
	"missionforge-backend/utilities"
)

// InitNotificationListeners subscribes to the domain events published by the
// progress pipeline. Handlers run asynchronously off the request path.
func InitNotificationListeners() {
	utilities.GlobalEventBus.Subscribe(utilities.EventMissionCompleted, func(data interface{}) {
		missionID, ok := data.(uint)
		if !ok {
			return
		}
		utilities.Info("[Event] Mission %d completed", missionID)
	})

	utilities.GlobalEventBus.Subscribe(utilities.EventAchievementUnlocked, func(data interface{}) {
		achievementID, ok := data.(string)
		if !ok {
			return
		}
		utilities.Info("[Event] Achievement unlocked: %s", achievementID)
	})
}
