/*package pygad deposits SPH particle quantities onto regular grids and onto
line-of-sight absorption spectra.

The heavy lifting lives in the subpackages:

	sph      kernel shapes, normalization, and projected (column) kernels
	binning  2D/3D deposition of particle quantities onto pixel grids
	absorb   optical-depth spectra along a single line of sight
	parallel chunked parallel loops and atomic accumulation

The packages operate purely in memory. Snapshot reading, unit handling, and
cosmology bookkeeping are the caller's problem; the entry points only take
flat float64 arrays plus a grid or spectrum description.
*/
package pygad
