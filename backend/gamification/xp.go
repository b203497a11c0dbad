// Package gamification holds the XP, level, streak and progress rules. Every
// function here is pure: callers fetch the data and persist the results.
package gamification

// LevelThreshold is the total XP needed to advance from level to level+1.
// It grows by 150 per level: 100, 250, 400, ...
func LevelThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	return level*100 + (level-1)*50
}

// ApplyXP adds delta to currentXP and advances at most one level when the
// new total reaches the threshold of currentLevel.
func ApplyXP(currentXP, currentLevel, delta int) (newXP, newLevel int) {
	if currentLevel < 1 {
		currentLevel = 1
	}
	newXP = currentXP + delta
	newLevel = currentLevel
	if newXP >= LevelThreshold(currentLevel) {
		newLevel++
	}
	return newXP, newLevel
}

// XPToNextLevel returns how much XP is still missing for the next level-up,
// never negative.
func XPToNextLevel(xp, level int) int {
	missing := LevelThreshold(level) - xp
	if missing < 0 {
		return 0
	}
	return missing
}
