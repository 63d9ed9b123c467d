// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used to bring decoded sound files to the output context rate
package resample

import "github.com/arismusic/aris-go/pkg/audio"

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	if channels < 1 {
		channels = 1
	}
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts input samples to output sample rate using linear interpolation
// input: interleaved samples at inputRate
// output: interleaved samples at outputRate
func (r *Resampler) Resample(input []float32, output []float32) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputIdx := int(r.position)

		// The final frame is copied as-is so short inputs still produce output
		if inputIdx >= inputFrames-1 {
			if inputIdx == inputFrames-1 {
				for ch := 0; ch < r.channels; ch++ {
					output[outIdx*r.channels+ch] = input[inputIdx*r.channels+ch]
				}
				outIdx++
				r.position += r.ratio
			}
			break
		}

		frac := float32(r.position - float64(inputIdx))
		for ch := 0; ch < r.channels; ch++ {
			s1 := input[inputIdx*r.channels+ch]
			s2 := input[(inputIdx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = s1*(1-frac) + s2*frac
		}

		outIdx++
		r.position += r.ratio
	}

	return outIdx * r.channels
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	if outputFrames == 0 && inputFrames > 0 {
		outputFrames = 1
	}
	return outputFrames * r.channels
}

// InputSamplesNeeded calculates how many input samples are needed to produce output samples
func (r *Resampler) InputSamplesNeeded(outputSamples int) int {
	outputFrames := outputSamples / r.channels
	inputFrames := int(float64(outputFrames) * r.ratio)
	return inputFrames * r.channels
}

// Convert returns pcm at the target rate; pcm is returned unchanged if it already matches
func Convert(pcm *audio.PCM, targetRate int) *audio.PCM {
	if pcm == nil || targetRate <= 0 || pcm.SampleRate == targetRate || pcm.SampleRate <= 0 {
		return pcm
	}

	r := New(pcm.SampleRate, targetRate, pcm.Channels)
	out := make([]float32, r.OutputSamplesNeeded(len(pcm.Samples)))
	n := r.Resample(pcm.Samples, out)

	return &audio.PCM{
		SampleRate: targetRate,
		Channels:   pcm.Channels,
		Samples:    out[:n],
	}
}
