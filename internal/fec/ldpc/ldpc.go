package ldpc

import "github.com/cwsl/wsprft8/internal/decodeerr"

// Decode runs belief-propagation LDPC decoding on 174 log-likelihood values
// (log(P(bit=1)/P(bit=0)): a positive value favours a 1 bit) for up to
// maxIters iterations. Returns the hard-decision 174-bit codeword from the
// last iteration run and the fewest parity errors seen in any iteration; when
// that count is 0 the returned codeword is the one that passed. Ported
// faithfully from ldpc.go's bpDecode.
func Decode(codeword []float32, maxIters int) ([]uint8, int) {
	var tov [N][3]float32
	var toc [M][7]float32

	plain := make([]uint8, N)
	minErrors := M

	for iter := 0; iter < maxIters; iter++ {
		plainSum := 0
		for n := 0; n < N; n++ {
			sum := codeword[n] + tov[n][0] + tov[n][1] + tov[n][2]
			if sum > 0 {
				plain[n] = 1
			} else {
				plain[n] = 0
			}
			plainSum += int(plain[n])
		}

		if plainSum == 0 {
			break
		}

		errors := Check(plain)
		if errors < minErrors {
			minErrors = errors
			if errors == 0 {
				break
			}
		}

		for m := 0; m < M; m++ {
			numRows := NumRows[m]
			for nIdx := 0; nIdx < numRows; nIdx++ {
				n := Nm[m][nIdx] - 1
				Tnm := codeword[n]
				for mIdx := 0; mIdx < MnCount[n]; mIdx++ {
					if Mn[n][mIdx]-1 != m {
						Tnm += tov[n][mIdx]
					}
				}
				toc[m][nIdx] = fastTanh(-Tnm / 2.0)
			}
		}

		for n := 0; n < N; n++ {
			for mIdx := 0; mIdx < MnCount[n]; mIdx++ {
				m := Mn[n][mIdx] - 1
				Tmn := float32(1.0)
				numRows := NumRows[m]
				for nIdx := 0; nIdx < numRows; nIdx++ {
					if Nm[m][nIdx]-1 != n {
						Tmn *= toc[m][nIdx]
					}
				}
				tov[n][mIdx] = -2.0 * fastAtanh(Tmn)
			}
		}
	}

	return plain, minErrors
}

// Check implements spec.md section 4.4's "Fast check" directly against the
// real generator matrix G: parity check m is satisfied when the XOR of
// codeword[0:91] masked by G[m] equals codeword[91+m]. Returns how many of
// the 83 checks are violated; 0 means every check passes (a valid
// codeword). Ported from FT4FT8Utilities::checkLdpc/fastCheckLdpc.
func Check(codeword []uint8) int {
	errors := 0
	for m := 0; m < M; m++ {
		row := G[m]
		var x uint8
		for i := 0; i < K; i++ {
			if row[i] == '1' {
				x ^= codeword[i]
			}
		}
		if x != codeword[K+m] {
			errors++
		}
	}
	return errors
}

// DecodePayload decodes codeword and, if every parity check passes, returns
// the 91-bit payload+CRC prefix; otherwise returns a decodeerr.LDPCFail.
func DecodePayload(codeword []float32, maxIters int) ([]uint8, error) {
	plain, errors := Decode(codeword, maxIters)
	if errors != 0 {
		return nil, decodeerr.New("ldpc.DecodePayload", decodeerr.LDPCFail)
	}
	return plain[:K], nil
}

// fastTanh computes a fast rational-polynomial approximation of tanh(x).
func fastTanh(x float32) float32 {
	if x < -4.97 {
		return -1.0
	}
	if x > 4.97 {
		return 1.0
	}
	x2 := x * x
	a := x * (945.0 + x2*(105.0+x2))
	b := 945.0 + x2*(420.0+x2*15.0)
	return a / b
}

// fastAtanh computes a fast rational-polynomial approximation of atanh(x).
func fastAtanh(x float32) float32 {
	x2 := x * x
	a := x * (945.0 + x2*(-735.0+x2*64.0))
	b := 945.0 + x2*(-1050.0+x2*225.0)
	return a / b
}
