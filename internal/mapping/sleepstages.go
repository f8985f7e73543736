package mapping

import (
	"fmt"

	"github.com/meltforce/healthbridge/internal/models"
)

// healthKitStages maps unified sleep stages to HKCategoryValueSleepAnalysis
// raw values. HealthKit calls light sleep "core" and has no out-of-bed value,
// so out_of_bed deliberately has no entry here.
var healthKitStages = map[models.SleepStage]int64{
	models.StageInBed:  0,
	models.StageAsleep: 1,
	models.StageAwake:  2,
	models.StageLight:  3, // asleepCore
	models.StageDeep:   4,
	models.StageREM:    5,
}

// healthConnectStages maps unified sleep stages to SleepSessionRecord stage
// type constants. Health Connect's awake_in_bed (7) canonicalizes back to the
// unified in_bed stage.
var healthConnectStages = map[models.SleepStage]int64{
	models.StageAwake:    1,
	models.StageAsleep:   2,
	models.StageOutOfBed: 3,
	models.StageLight:    4,
	models.StageDeep:     5,
	models.StageREM:      6,
	models.StageInBed:    7, // awake_in_bed
}

var (
	healthKitStagesInv     = invertStages(healthKitStages)
	healthConnectStagesInv = invertStages(healthConnectStages)
)

func invertStages(fwd map[models.SleepStage]int64) map[int64]models.SleepStage {
	inv := make(map[int64]models.SleepStage, len(fwd))
	for s, code := range fwd {
		inv[code] = s
	}
	return inv
}

func stageTable(p models.Platform) (map[models.SleepStage]int64, map[int64]models.SleepStage, error) {
	switch p {
	case models.PlatformHealthKit:
		return healthKitStages, healthKitStagesInv, nil
	case models.PlatformHealthConnect:
		return healthConnectStages, healthConnectStagesInv, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown platform %q", models.ErrInvalidParameters, p)
}

// SleepStageToPlatform resolves a unified sleep stage to the native code.
func SleepStageToPlatform(s models.SleepStage, p models.Platform) (int64, error) {
	fwd, _, err := stageTable(p)
	if err != nil {
		return 0, err
	}
	code, ok := fwd[s]
	if !ok {
		return 0, fmt.Errorf("%w: sleep stage %s has no %s entry", models.ErrUnsupportedDataType, s, p)
	}
	return code, nil
}

// SleepStageFromPlatform resolves a native stage code back to the unified
// stage.
func SleepStageFromPlatform(code int64, p models.Platform) (models.SleepStage, error) {
	_, inv, err := stageTable(p)
	if err != nil {
		return "", err
	}
	s, ok := inv[code]
	if !ok {
		return "", fmt.Errorf("%w: sleep stage code %d unknown on %s", models.ErrUnsupportedDataType, code, p)
	}
	return s, nil
}
