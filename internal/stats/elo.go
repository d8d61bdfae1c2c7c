package stats

import "math"

// scoreLimit keeps confidence bounds off 0 and 1, where the logistic scale is infinite.
const scoreLimit = 1e-6

// Elo returns the first player's Elo difference over the second along with
// its 95% confidence bounds. Every outcome count starts from a prior of 1/2,
// so a clean sweep still has a finite estimate.
func Elo(wins, draws, losses int) (lower float64, elo float64, upper float64) {
	if wins+draws+losses == 0 {
		return 0, 0, 0
	}

	// Dirichlet([0.5, 0.5, 0.5]) prior
	n := float64(wins+draws+losses) + 1.5

	w := (float64(wins) + 0.5) / n   // measured win probability
	d := (float64(draws) + 0.5) / n  // measured draw probability
	l := (float64(losses) + 0.5) / n // measured loss probability

	mu := w + d/2

	// standard error of the mean score
	sigma := math.Sqrt(w*math.Pow(1-mu, 2)+d*math.Pow(0.5-mu, 2)+l*math.Pow(0-mu, 2)) / math.Sqrt(n)

	muMin := mu + phiInv(0.025)*sigma
	muMax := mu + phiInv(0.975)*sigma

	return scoreToElo(muMin), scoreToElo(mu), scoreToElo(muMax)
}

// ErrorMargin is the wider half of the confidence interval around elo.
func ErrorMargin(lower, elo, upper float64) float64 {
	return math.Max(upper-elo, elo-lower)
}

// scoreToElo maps an expected score onto the logistic Elo scale.
func scoreToElo(score float64) float64 {
	score = math.Min(math.Max(score, scoreLimit), 1-scoreLimit)

	return -400 * math.Log10(1/score-1)
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
