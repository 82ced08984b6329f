package domain

const (
	minorTrickPoints        = 20
	majorTrickPoints        = 30
	noTrumpFirstTrickPoints = 40

	partScoreBonus = 50
	gameThreshold  = 100

	gameBonus              = 300
	gameBonusVul           = 500
	smallSlamBonus         = 500
	smallSlamBonusVul      = 750
	grandSlamBonus         = 1000
	grandSlamBonusVul      = 1500
	doubledInsult          = 50
	redoubledInsult        = 100
	doubledOvertrick       = 100
	doubledOvertrickVul    = 200
	undertrickPenalty      = 50
	undertrickPenaltyVul   = 100
	doubledFirstUnder      = 100
	doubledNextUnder       = 200
	doubledFirstUnderVul   = 200
	doubledNextUnderVul    = 300
	redoubledFirstUnder    = 200
	redoubledNextUnder     = 400
	redoubledFirstUnderVul = 400
	redoubledNextUnderVul  = 600
)

// Result is the outcome of scoring one played contract.
type Result struct {
	DeclarerScore int
	DefenderScore int
	Made          bool
	Overtricks    int
	Undertricks   int
}

// Score computes duplicate scores for contract given the declarer's vulnerability
// and the tricks the declaring side took.
func Score(c Contract, vulnerable bool, tricksMade int) Result {
	need := c.TricksRequired()
	if tricksMade < need {
		down := need - tricksMade
		return Result{DefenderScore: undertrickPoints(c.Risk, vulnerable, down), Undertricks: down}
	}

	over := tricksMade - need
	points := contractPoints(c)
	total := points + overtrickPoints(c, vulnerable, over)
	if points >= gameThreshold {
		total += pick(vulnerable, gameBonusVul, gameBonus)
	} else {
		total += partScoreBonus
	}
	switch c.Level {
	case 6:
		total += pick(vulnerable, smallSlamBonusVul, smallSlamBonus)
	case 7:
		total += pick(vulnerable, grandSlamBonusVul, grandSlamBonus)
	}
	switch c.Risk {
	case Doubled:
		total += doubledInsult
	case Redoubled:
		total += redoubledInsult
	}
	return Result{DeclarerScore: total, Made: true, Overtricks: over}
}

func contractPoints(c Contract) int {
	var points int
	switch {
	case c.Denomination == NoTrump:
		points = noTrumpFirstTrickPoints + (int(c.Level)-1)*majorTrickPoints
	case c.Denomination.IsMajor():
		points = int(c.Level) * majorTrickPoints
	default:
		points = int(c.Level) * minorTrickPoints
	}
	return points * riskMultiplier(c.Risk)
}

func overtrickPoints(c Contract, vulnerable bool, over int) int {
	if over <= 0 {
		return 0
	}
	switch c.Risk {
	case Doubled:
		return over * pick(vulnerable, doubledOvertrickVul, doubledOvertrick)
	case Redoubled:
		return over * 2 * pick(vulnerable, doubledOvertrickVul, doubledOvertrick)
	}
	if c.Denomination.IsMinor() {
		return over * minorTrickPoints
	}
	return over * majorTrickPoints
}

func undertrickPoints(risk Risk, vulnerable bool, down int) int {
	switch risk {
	case Doubled:
		return pick(vulnerable, doubledFirstUnderVul, doubledFirstUnder) +
			(down-1)*pick(vulnerable, doubledNextUnderVul, doubledNextUnder)
	case Redoubled:
		return pick(vulnerable, redoubledFirstUnderVul, redoubledFirstUnder) +
			(down-1)*pick(vulnerable, redoubledNextUnderVul, redoubledNextUnder)
	}
	return down * pick(vulnerable, undertrickPenaltyVul, undertrickPenalty)
}

func riskMultiplier(r Risk) int {
	switch r {
	case Doubled:
		return 2
	case Redoubled:
		return 4
	}
	return 1
}

func pick(vulnerable bool, vul, nonVul int) int {
	if vulnerable {
		return vul
	}
	return nonVul
}
