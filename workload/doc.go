// Package workload runs multiply benchmarks described by JSON or YAML files.
//
// A description names a kernel, two input matrices (matrixA, matrixB) with
// their expected shapes and one output (matrixC):
//
//	{
//	    "kernelName": "SparseMMTimOptimized",
//	    "inputs": {
//	        "matrixA": {"fileName": "a.csr", "m": 1000, "n": 1000, "nnz": 10000, "edgeFactor": 10},
//	        "matrixB": {"fileName": "b.csr", "m": 1000, "n": 1000, "nnz": 10000, "edgeFactor": 10}
//	    },
//	    "outputs": {
//	        "matrixC": {"fileName": "c.csr"}
//	    }
//	}
//
// File names are blob names in the Runner's store.
package workload
