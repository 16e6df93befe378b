package eigenpro

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/eigenpro/kernel"
	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

// GetParams returns the hyperparameters under their scikit-learn names.
// bs and subsample_size are "auto" or an int; gamma and random_state are nil
// when unset.
func (r *FastKernelRegression) GetParams() map[string]interface{} {
	params := map[string]interface{}{
		"bs":             sizeParam(r.bs),
		"n_epoch":        r.nEpoch,
		"n_components":   r.nComponents,
		"subsample_size": sizeParam(r.subsampleSize),
		"mem_gb":         r.memGB,
		"kernel":         r.kernelLabel(),
		"bandwidth":      r.bandwidth,
		"gamma":          nil,
		"degree":         r.degree,
		"coef0":          r.coef0,
		"kernel_params":  r.kernelParams,
		"random_state":   nil,
	}
	if r.gamma != nil {
		params["gamma"] = *r.gamma
	}
	if r.randomState != nil {
		params["random_state"] = *r.randomState
	}
	return params
}

// SetParams updates hyperparameters by name. It accepts the values produced
// by GetParams; ints are accepted where floats are expected. Unknown names or
// values of the wrong type return a ValidationError and leave the model
// unchanged. The fitted state is not touched until the next Fit.
func (r *FastKernelRegression) SetParams(params map[string]interface{}) error {
	next := *r
	for key, value := range params {
		if err := next.setParam(key, value); err != nil {
			return err
		}
	}
	*r = next
	return nil
}

func (r *FastKernelRegression) setParam(key string, value interface{}) error {
	var err error
	switch key {
	case "bs":
		r.bs, err = toSize(key, value)
	case "subsample_size":
		r.subsampleSize, err = toSize(key, value)
	case "n_epoch":
		r.nEpoch, err = toInt(key, value)
	case "n_components":
		r.nComponents, err = toInt(key, value)
	case "mem_gb":
		r.memGB, err = toFloat(key, value)
	case "bandwidth":
		r.bandwidth, err = toFloat(key, value)
	case "degree":
		r.degree, err = toFloat(key, value)
	case "coef0":
		r.coef0, err = toFloat(key, value)
	case "gamma":
		if value == nil {
			r.gamma = nil
			return nil
		}
		var g float64
		if g, err = toFloat(key, value); err == nil {
			r.gamma = &g
		}
	case "random_state":
		if value == nil {
			r.randomState = nil
			return nil
		}
		var seed int
		if seed, err = toInt(key, value); err == nil {
			s := int64(seed)
			r.randomState = &s
		}
	case "kernel":
		switch v := value.(type) {
		case string:
			WithKernelName(v)(r)
		case kernel.Kernel:
			WithKernel(v)(r)
		case kernel.Func:
			WithKernelFunc("custom", v)(r)
		case func(x, y []float64, params map[string]interface{}) float64:
			WithKernelFunc("custom", v)(r)
		default:
			err = errors.NewValidationError(key, "expected a kernel name, kernel.Kernel or kernel.Func", value)
		}
	case "kernel_params":
		switch v := value.(type) {
		case nil:
			r.kernelParams = nil
		case map[string]interface{}:
			r.kernelParams = v
		default:
			err = errors.NewValidationError(key, "expected map[string]interface{}", value)
		}
	default:
		err = errors.NewValidationError(key, "unknown parameter", value)
	}
	return err
}

func sizeParam(s Size) interface{} {
	if v, fixed := s.Value(); fixed {
		return v
	}
	return "auto"
}

func toSize(key string, value interface{}) (Size, error) {
	switch v := value.(type) {
	case Size:
		return v, nil
	case string:
		if strings.EqualFold(v, "auto") {
			return Auto(), nil
		}
	default:
		if n, err := toInt(key, value); err == nil {
			return Fixed(n), nil
		}
	}
	return Size{}, errors.NewValidationError(key, "expected \"auto\" or an integer", value)
}

func toInt(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, errors.NewValidationError(key, fmt.Sprintf("expected an integer, got %T", value), value)
}

func toFloat(key string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, errors.NewValidationError(key, fmt.Sprintf("expected a number, got %T", value), value)
}
