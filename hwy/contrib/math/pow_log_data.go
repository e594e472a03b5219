package math

// Log kernel data for Pow64Scalar.
//
// x = 2^k z with z in [powLogOff, 2*powLogOff) as bit patterns. That
// range is split into powLogN subintervals indexed by the top
// powLogTableBits bits of the mantissa of (ix - powLogOff), and
//
//	log(x) = k*ln2 + log(c) + log1p(z/c - 1)
//
// where c is near the centre of the subinterval containing z.
const (
	powLogTableBits = 7
	powLogN         = 1 << powLogTableBits
	powLogOff       = 0x3fe6955500000000
)

// ln2 split so that k*powLn2Hi is exact for every exponent k a binary64
// can produce, subnormals included.
const (
	powLn2Hi = 0x1.62e42fefa3800p-1
	powLn2Lo = 0x1.ef35793c76730p-45
)

// powLogPoly approximates log1p(r) - r on |r| < 0x1.6bp-8 with relative
// error 0x1.11922ap-70. The coefficients are pre-scaled by the factors
// the evaluation in logInline multiplies back in, and powLogPoly[0] is
// exactly -0.5.
var powLogPoly = [7]float64{
	-0x1p-1,
	0x1.555555555556p-2 * -2,
	-0x1.0000000000006p-2 * -2,
	0x1.999999959554ep-3 * 4,
	-0x1.555555529a47ap-3 * 4,
	0x1.2495b9b4845e9p-3 * -8,
	-0x1.0002b8b263fc3p-3 * -8,
}

// powLogTable holds, for each subinterval i:
//
//	invc[i]     = 1/c, with at most 8 significant bits so z*invc - 1 is exact
//	logc[i]     = log(c) rounded to a multiple of 2^-43
//	logctail[i] = log(c) - logc[i] rounded to binary64
//
// The rounding of logc leaves room for k*powLn2Hi + logc to be exact.
type powLogTable struct {
	invc     [powLogN]float64
	logc     [powLogN]float64
	logctail [powLogN]float64
}

// powLogData is built once at package initialisation and never written
// again, so concurrent readers need no synchronisation.
var powLogData = newPowLogTable()
